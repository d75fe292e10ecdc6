package handler

const (
	errInternalServer = "Internal Server Error"
)
