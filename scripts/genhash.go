// Command genhash prints bcrypt hashes for seeding users directly in the store.
//
//	go run ./scripts admin@example.org 'S3cret!pass'
package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	if len(os.Args) < 3 || len(os.Args)%2 == 0 {
		fmt.Fprintln(os.Stderr, "usage: genhash <email> <password> [<email> <password> ...]")
		os.Exit(2)
	}

	for i := 1; i+1 < len(os.Args); i += 2 {
		email, pass := os.Args[i], os.Args[i+1]
		hash, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			continue
		}
		fmt.Printf("Email: %s\nHash: %s\n\n", email, string(hash))
	}
}
