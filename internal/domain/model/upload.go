package model

import "io"

// Upload is a file received with a registration request.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// Registration bundles everything a client submits to create an account.
type Registration struct {
	Profile  Profile
	Password string
	Picture  *Upload
}
