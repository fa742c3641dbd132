//go:build windows && (amd64 || arm64)

package platform

const getWindowLongName = "GetWindowLongPtrW"

// pointArgs passes a POINT by value, packed into one register.
func pointArgs(x, y int) []uintptr {
	return []uintptr{uintptr(uint32(int32(x))) | uintptr(uint32(int32(y)))<<32}
}
