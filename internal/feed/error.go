package feed

import "errors"

var ErrEventFileNotFound = errors.New("event file not found")
