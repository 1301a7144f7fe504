package repository

import "fmt"

// Mode names the backend that currently holds the live data.
type Mode string

const (
	ModeSQL            Mode = "SQL"
	ModeNoSQL          Mode = "NO_SQL"
	ModeNotInitialized Mode = "not_initialized"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeSQL, ModeNoSQL, ModeNotInitialized:
		return m, nil
	}
	return "", fmt.Errorf("unknown store mode %q", s)
}

func ParseStockPolicy(s string) (StockPolicy, error) {
	switch p := StockPolicy(s); p {
	case StockPolicyReject, StockPolicyBackorder:
		return p, nil
	}
	return "", fmt.Errorf("unknown stock policy %q", s)
}
