package domain

import "errors"

var (
	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound indicates the server has no record for the requested video.
	ErrNotFound = errors.New("video not found")

	// ErrUnknownVideo indicates no local record matches the given id.
	ErrUnknownVideo = errors.New("unknown video id")

	// ErrEmptyTitle indicates an upload draft without a title.
	ErrEmptyTitle = errors.New("video title cannot be empty")

	// ErrNoMedia indicates an upload draft without a media file.
	ErrNoMedia = errors.New("video media is required")
)
