package app

import "errors"

var (
	ErrAppAlreadyRunning = errors.New("app is already running")
	ErrAppNotRunning     = errors.New("app is not running")
)
