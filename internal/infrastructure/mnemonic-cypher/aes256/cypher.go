package mnemonic_cypher

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/scrypt"
)

var (
	ErrNullPlainText     = fmt.Errorf("missing plaintext")
	ErrNullPassword      = fmt.Errorf("missing password")
	ErrNullCypherText    = fmt.Errorf("missing cyphertext")
	ErrInvalidCypherText = fmt.Errorf("cyphertext is too short")
)

// AES256Cypher encrypts with AES-256-GCM, deriving the key from the password
// with scrypt. The random salt is appended to the ciphertext so that the key
// can be derived again at decryption time.
type AES256Cypher struct{}

func NewAES256Cypher() *AES256Cypher {
	return &AES256Cypher{}
}

func (c *AES256Cypher) Encrypt(mnemonic, password []byte) ([]byte, error) {
	if len(mnemonic) <= 0 {
		return nil, ErrNullPlainText
	}
	if len(password) <= 0 {
		return nil, ErrNullPassword
	}

	key, salt, err := deriveKey(password, nil)
	if err != nil {
		return nil, err
	}

	blockCipher, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(blockCipher)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	ciphertext := gcm.Seal(nonce, nonce, mnemonic, nil)
	ciphertext = append(ciphertext, salt...)
	return ciphertext, nil
}

func (c *AES256Cypher) Decrypt(encryptedMnemonic, password []byte) ([]byte, error) {
	if len(encryptedMnemonic) <= 0 {
		return nil, ErrNullCypherText
	}
	if len(password) <= 0 {
		return nil, ErrNullPassword
	}

	if len(encryptedMnemonic) <= 32 {
		return nil, ErrInvalidCypherText
	}

	data := encryptedMnemonic
	salt, data := data[len(data)-32:], data[:len(data)-32]

	key, _, err := deriveKey(password, salt)
	if err != nil {
		return nil, err
	}

	blockCipher, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(blockCipher)
	if err != nil {
		return nil, err
	}
	if len(data) < gcm.NonceSize() {
		return nil, ErrInvalidCypherText
	}

	nonce, text := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	return gcm.Open(nil, nonce, text, nil)
}

// deriveKey derives a 32 byte key from the password with scrypt. A random
// 32 byte salt is generated if not given.
// 2^20 = 1048576 recommended length for key-stretching
// check the doc for other recommended values:
// https://godoc.org/golang.org/x/crypto/scrypt
func deriveKey(password, salt []byte) ([]byte, []byte, error) {
	if salt == nil {
		salt = make([]byte, 32)
		if _, err := rand.Read(salt); err != nil {
			return nil, nil, err
		}
	}
	key, err := scrypt.Key(password, salt, 1048576, 8, 1, 32)
	if err != nil {
		return nil, nil, err
	}
	return key, salt, nil
}
