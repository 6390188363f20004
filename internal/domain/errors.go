package domain

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrMatchConflict = errors.New("ambiguous nominee match")
	ErrRateLimited   = errors.New("rate limited")
)
