//go:build !(cubism_cgo && cgo) && windows

package backend

import "golang.org/x/sys/windows"

func defaultLibraryName() string { return "Live2DCubismCore.dll" }

func openLibrary(path string) (uintptr, error) {
	h, err := windows.LoadLibrary(path)
	return uintptr(h), err
}

func lookupSymbol(handle uintptr, name string) (uintptr, error) {
	return windows.GetProcAddress(windows.Handle(handle), name)
}

func closeLibrary(handle uintptr) error {
	return windows.FreeLibrary(windows.Handle(handle))
}
