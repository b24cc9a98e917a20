//go:build cubism_cgo && cgo

package backend

/*
#include <stdlib.h>
*/
import "C"

//export cubismGoLog
func cubismGoLog(message *C.char) {
	dispatchLog(C.GoString(message))
}
