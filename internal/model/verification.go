package model

import "time"

// VerificationCodeTTL is how long a phone verification code stays valid
const VerificationCodeTTL = 10 * time.Minute

// VerificationCode is a short-lived code sent to a phone number during
// registration. Consumed on successful registration.
type VerificationCode struct {
	ID        int64
	Phone     string // normalized
	Code      string // 6 digits
	CreatedAt time.Time
}

// ExpiredAt reports whether the code is past its validity window at now
func (v *VerificationCode) ExpiredAt(now time.Time) bool {
	return now.Sub(v.CreatedAt) > VerificationCodeTTL
}
