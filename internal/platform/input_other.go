//go:build !windows && !linux

package platform

import "context"

type unsupportedInputHook struct{}

func newInputHook() InputHook {
	return unsupportedInputHook{}
}

func (unsupportedInputHook) Start(context.Context) (<-chan InputEvent, error) {
	return nil, ErrUnsupported
}

func (unsupportedInputHook) Stop() error {
	return nil
}
