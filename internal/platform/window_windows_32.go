//go:build windows && (386 || arm)

package platform

// user32 only exports GetWindowLongPtrW on 64-bit systems.
const getWindowLongName = "GetWindowLongW"

// pointArgs passes a POINT by value as two stack words.
func pointArgs(x, y int) []uintptr {
	return []uintptr{uintptr(int32(x)), uintptr(int32(y))}
}
