package server

import "errors"

var (
	errBadMethod    = errors.New("method must be one of estimate, scale_bar, direct, measure, loaded")
	errBadDirection = errors.New("direction must be \"left\" or \"right\"")
	errNoImage      = errors.New("no image loaded")
)
