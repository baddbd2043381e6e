package random

import (
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/erzhan12/habit-reward-go/internal/common/apperror"
)

const (
	minOTPLength = 4
	maxOTPLength = 12
	digits       = "0123456789"
)

// GenerateNumericOTP generates a digit-only code of the given length,
// drawn from a CSPRNG. length must be between minOTPLength and maxOTPLength.
func GenerateNumericOTP(length int) (string, error) {
	if length < minOTPLength || length > maxOTPLength {
		return "", apperror.ValidationFailed("OTP length must be between 4 and 12 digits")
	}

	digitsLength := big.NewInt(int64(len(digits)))
	var otpBuilder strings.Builder
	otpBuilder.Grow(length)

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, digitsLength)
		if err != nil {
			return "", apperror.InternalError(err)
		}
		otpBuilder.WriteByte(digits[n.Int64()])
	}

	return otpBuilder.String(), nil
}
