// Package tokens counts tokens the way the chat models do, using the
// cl100k_base encoding.
package tokens

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Counter wraps a tiktoken encoding.
type Counter struct {
	enc *tiktoken.Tiktoken
}

func NewCounter() (*Counter, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("failed to load cl100k_base encoding: %w", err)
	}
	return &Counter{enc: enc}, nil
}

// Count returns the number of tokens in text. Special-token sequences
// occurring in course markdown (e.g. <|endoftext|>) are allowed rather
// than rejected.
func (c *Counter) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(c.enc.Encode(text, []string{"all"}, nil))
}
