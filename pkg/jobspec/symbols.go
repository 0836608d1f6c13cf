package jobspec

import "reflect"

// Symbols exposes the package to the script interpreter. The map layout
// follows the yaegi convention: import path plus package name as the key,
// types published as typed nil pointers.
func Symbols() map[string]map[string]reflect.Value {
	return map[string]map[string]reflect.Value{
		"github.com/vk/jobrun/pkg/jobspec/jobspec": {
			"New":     reflect.ValueOf(New),
			"NewRole": reflect.ValueOf(NewRole),
			"Job":     reflect.ValueOf((*Job)(nil)),
			"Role":    reflect.ValueOf((*Role)(nil)),
		},
	}
}
