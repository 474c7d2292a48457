// Package credentials generates the short codes handed out to therapists
// and kid-friendly usernames for children who join without picking one.
package credentials

import (
	"crypto/rand"
	"math/big"
)

const therapistCodeLen = 6

var adjectives = []string{
	"happy", "sunny", "brave", "bright", "cool", "swift", "clever", "jolly",
	"mighty", "super", "star", "wild", "funny", "lucky", "magic", "bouncy",
	"cheerful", "daring", "eager", "gentle", "lively", "merry", "perky", "quick",
	"snappy", "zippy", "bold", "cosmic", "epic", "groovy",
}

var nouns = []string{
	"dragon", "tiger", "eagle", "dolphin", "panda", "lion", "wolf", "bear",
	"fox", "hawk", "phoenix", "unicorn", "rocket", "wizard", "knight", "robot",
	"hero", "champion", "explorer", "ranger", "comet", "thunder", "tornado",
	"flame", "storm", "spirit", "racer",
}

// GenerateTherapistCode returns a 6-digit numeric code. Children enter this
// code to attach themselves to a therapist, so it must be easy to read out
// loud; leading zeros are allowed.
func GenerateTherapistCode() (string, error) {
	code := make([]byte, therapistCodeLen)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		code[i] = byte('0' + n.Int64())
	}
	return string(code), nil
}

// GenerateChildUsername returns a random "adjective-noun" username.
func GenerateChildUsername() (string, error) {
	adjective, err := randomElement(adjectives)
	if err != nil {
		return "", err
	}
	noun, err := randomElement(nouns)
	if err != nil {
		return "", err
	}
	return adjective + "-" + noun, nil
}

func randomElement(slice []string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(slice))))
	if err != nil {
		return "", err
	}
	return slice[n.Int64()], nil
}
