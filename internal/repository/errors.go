package repository

import "errors"

var (
	ErrNotFound  = errors.New("short code not found")
	ErrCodeTaken = errors.New("short code already taken")
	ErrURLExists = errors.New("original url already stored")
)
