package transaction

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const numberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NumberGenerator returns a human readable transaction number for the given
// instant. Numbers are unique by construction only up to the random suffix.
type NumberGenerator func(at time.Time) (string, error)

// RandomNumber formats TRX-YYYYMMDD-XXXXXX with six random base36 characters.
func RandomNumber(at time.Time) (string, error) {
	suffix := make([]byte, 6)
	base := big.NewInt(int64(len(numberAlphabet)))

	for i := range suffix {
		n, err := rand.Int(rand.Reader, base)
		if err != nil {
			return "", fmt.Errorf("generating transaction number: %w", err)
		}

		suffix[i] = numberAlphabet[n.Int64()]
	}

	return fmt.Sprintf("TRX-%s-%s", at.Format("20060102"), suffix), nil
}
