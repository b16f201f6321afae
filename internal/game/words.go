package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

type WordPair struct {
	Common     string `json:"common"`
	Undercover string `json:"undercover"`
}

type WordPool []WordPair

// DefaultWordPool is used when no words file is configured.
var DefaultWordPool = WordPool{
	{Common: "Coffee", Undercover: "Tea"},
	{Common: "Beach", Undercover: "Desert"},
	{Common: "Cat", Undercover: "Dog"},
	{Common: "Pizza", Undercover: "Burger"},
	{Common: "Laptop", Undercover: "Tablet"},
	{Common: "Bicycle", Undercover: "Motorcycle"},
	{Common: "Movie", Undercover: "Series"},
	{Common: "Rain", Undercover: "Snow"},
}

// Pick draws one pair uniformly at random.
func (p WordPool) Pick(rng Random) WordPair {
	return p[rng.Intn(len(p))]
}

// LoadWordPool reads a JSON array of {"common", "undercover"} pairs.
func LoadWordPool(path string) (WordPool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var pool WordPool
	if err := json.Unmarshal(data, &pool); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := pool.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return pool, nil
}

func (p WordPool) validate() error {
	if len(p) == 0 {
		return errors.New("word pool is empty")
	}
	for i, pair := range p {
		common := strings.TrimSpace(pair.Common)
		undercover := strings.TrimSpace(pair.Undercover)
		if common == "" || undercover == "" {
			return fmt.Errorf("pair %d has an empty word", i)
		}
		if strings.EqualFold(common, undercover) {
			return fmt.Errorf("pair %d uses the same word twice", i)
		}
	}
	return nil
}
