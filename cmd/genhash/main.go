// cmd/genhash prints a password hash in the stored PBKDF2 format.
// Uso: go run ./cmd/genhash <password>
package main

import (
	"fmt"
	"os"

	"integrafacturacion/internal/auth"
)

func main() {
	password := "integra2026"
	if len(os.Args) > 1 {
		password = os.Args[1]
	}
	h, err := auth.HashPassword(password)
	if err != nil {
		panic(err)
	}
	fmt.Println(h)
}
