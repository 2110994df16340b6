// Команда печатает bcrypt-хеш для OPERATOR_PASSWORD_HASH.
package main

import (
	"flag"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	password := flag.String("password", "", "пароль оператора")
	flag.Parse()

	if len(*password) < 6 {
		log.Fatal("Укажите пароль длиной не меньше 6 символов: -password=...")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Ошибка при генерации хеша: %v", err)
	}
	fmt.Println(string(hashedPassword))
}
