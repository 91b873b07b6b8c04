// Command ffi builds the C shared library used by desktop hosts:
//
//	go build -buildmode=c-shared -o libababil.so ./apps/ffi
//
// Every non-null string returned by an export is allocated with malloc and
// must be released exactly once with free_string.
package main

/*
#include <stdlib.h>
*/
import "C"

import (
	"context"
	"unsafe"

	"github.com/Muradian-OSP/Ababil-Studio/packages/bridge"
)

var defaultBridge = bridge.New()

//export make_http_request
func make_http_request(requestJSON *C.char) *C.char {
	if requestJSON == nil {
		return nil
	}
	return toC(defaultBridge.MakeHTTPRequest(context.Background(), goBytes(requestJSON)))
}

//export parse_postman_collection
func parse_postman_collection(collectionJSON *C.char) *C.char {
	if collectionJSON == nil {
		return nil
	}
	return toC(bridge.ParseCollection(goBytes(collectionJSON)))
}

//export collection_to_json
func collection_to_json(collectionJSON *C.char) *C.char {
	if collectionJSON == nil {
		return nil
	}
	return toC(bridge.CollectionToJSON(goBytes(collectionJSON)))
}

//export parse_postman_environment
func parse_postman_environment(environmentJSON *C.char) *C.char {
	if environmentJSON == nil {
		return nil
	}
	return toC(bridge.ParseEnvironment(goBytes(environmentJSON)))
}

//export environment_to_json
func environment_to_json(environmentJSON *C.char) *C.char {
	if environmentJSON == nil {
		return nil
	}
	return toC(bridge.EnvironmentToJSON(goBytes(environmentJSON)))
}

//export free_string
func free_string(s *C.char) {
	if s != nil {
		C.free(unsafe.Pointer(s))
	}
}

func goBytes(s *C.char) []byte {
	return []byte(C.GoString(s))
}

func toC(b []byte) *C.char {
	if b == nil {
		return nil
	}
	return C.CString(string(b))
}

func main() {}
