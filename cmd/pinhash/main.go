// Command pinhash reads a PIN without echo and prints the argon2id
// encoding expected in the server's gate configuration.
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/recoveryvault/internal/common"
	"github.com/dmitrijs2005/recoveryvault/internal/cryptox"
	"golang.org/x/term"
)

var readPassword = term.ReadPassword

func main() {
	if err := run(os.Stdout, os.Stderr, int(os.Stdin.Fd())); err != nil {
		fmt.Fprintln(os.Stderr, "pinhash:", err)
		os.Exit(1)
	}
}

func run(out, prompt io.Writer, fd int) error {
	fmt.Fprint(prompt, "PIN: ")
	pin, err := readPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pin)

	fmt.Fprint(prompt, "Repeat PIN: ")
	again, err := readPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(again)

	if len(pin) == 0 {
		return fmt.Errorf("empty PIN")
	}
	if !bytes.Equal(pin, again) {
		return fmt.Errorf("PINs do not match")
	}

	_, err = fmt.Fprintln(out, cryptox.HashPIN(pin, cryptox.DefaultParams))
	return err
}
