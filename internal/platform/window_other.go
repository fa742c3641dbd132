//go:build !windows && !linux

package platform

func newWindowSystem() (WindowSystem, error) {
	return nil, ErrUnsupported
}
