package checkin

import "errors"

var (
	ErrIncompleteInfo = errors.New("incomplete information")
	ErrInvalidQR      = errors.New("invalid QR code")
	ErrQRExpired      = errors.New("QR code expired")
	ErrRoomClosed     = errors.New("room is not open for check-in")
	ErrNotInClass     = errors.New("student not in this class")
	ErrOutOfRange     = errors.New("out of check-in range")
)
