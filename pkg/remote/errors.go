package remote

import "fmt"

// ConnectivityError means the request never produced an HTTP response.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("connectivity: %v", e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// InvalidDataError means the server answered with something other than a
// decodable 200 page.
type InvalidDataError struct {
	StatusCode int
	Err        error
}

func (e *InvalidDataError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid data: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("invalid data (status %d): %v", e.StatusCode, e.Err)
}

func (e *InvalidDataError) Unwrap() error { return e.Err }
