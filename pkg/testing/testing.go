package testing

import (
	"os"
	"path"
	"runtime"
)

func init() {
	// tests resolve .env files and sqlite paths relative to the module root
	//
	//   in some_test.go,
	//   import (
	//     _ "github.com/samseatt/vitaledge-pi-iot/pkg/testing"
	//   )

	_, filename, _, _ := runtime.Caller(0)           // path of this file
	dir := path.Join(path.Dir(filename), "..", "..") // module root
	err := os.Chdir(dir)
	if err != nil {
		panic(err)
	}
}
