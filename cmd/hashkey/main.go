// Command hashkey prints the bcrypt hash to put in ADMIN_KEY_HASH.
//
// Usage:
//
//	hashkey -cost 12 < key.txt
//	hashkey -key 'operator secret'
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"card-service/internal/auth"
)

func main() {
	key := flag.String("key", "", "admin key to hash (read from stdin when empty)")
	cost := flag.Int("cost", auth.DefaultAdminKeyCost, "bcrypt cost")
	flag.Parse()

	value := *key
	if value == "" {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			log.Fatalf("Failed to read admin key from stdin: %v", err)
		}
		value = strings.TrimRight(line, "\r\n")
	}

	hash, err := auth.HashAdminKey(value, *cost)
	if err != nil {
		log.Fatalf("Failed to hash admin key: %v", err)
	}
	fmt.Println(hash)
}
