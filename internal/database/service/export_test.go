package service

import "time"

// WithClock pins the time a user service stamps lifecycle changes with
func WithClock(s UserService, now func() time.Time) UserService {
	s.(*userService).now = now
	return s
}
