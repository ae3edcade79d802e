package domain

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	multisig "github.com/vulpemventures/go-bip48/pkg/wallet/multi-sig"
)

var (
	ErrCoordinatorMissingMnemonic    = fmt.Errorf("missing mnemonic")
	ErrCoordinatorMissingPassword    = fmt.Errorf("missing password")
	ErrCoordinatorMissingAccountXpub = fmt.Errorf("missing account xpub")
	ErrCoordinatorInvalidNetwork     = fmt.Errorf("unknown network")
	ErrCoordinatorInvalidPassword    = fmt.Errorf("wrong password")
	ErrCoordinatorLocked             = fmt.Errorf("coordinator is locked")
	ErrCoordinatorUnlocked           = fmt.Errorf("coordinator must be locked")
	ErrCoordinatorWatchOnly          = fmt.Errorf("coordinator is watch-only")
	ErrCoordinatorComplete           = fmt.Errorf("all cosigners already registered")
	ErrCoordinatorNotComplete        = fmt.Errorf("cosigner registration not completed yet")

	networks = map[string]*chaincfg.Params{
		"mainnet": &chaincfg.MainNetParams,
		"testnet": &chaincfg.TestNet3Params,
		"regtest": &chaincfg.RegressionNetParams,
	}
)

// CoordinatorParams holds the multisig account parameters every party must
// agree on out-of-band before the setup starts. They are validated once, at
// coordinator creation, and never change afterwards.
type CoordinatorParams struct {
	Threshold      uint32
	TotalCosigners uint32
	CoinType       uint32
	Account        uint32
	ScriptType     multisig.ScriptType
	NetworkName    string
}

// Network returns the chain params of the coordinator's network.
func (p CoordinatorParams) Network() *chaincfg.Params {
	return networks[p.NetworkName]
}

// DerivationPath returns the account-level derivation path in string format.
func (p CoordinatorParams) DerivationPath() string {
	return multisig.DerivationPathForAccount(
		p.CoinType, p.Account, p.ScriptType,
	).String()
}

func (p CoordinatorParams) accountArgs() (multisig.AccountArgs, error) {
	net, ok := networks[p.NetworkName]
	if !ok {
		return multisig.AccountArgs{}, ErrCoordinatorInvalidNetwork
	}
	return multisig.AccountArgs{
		Threshold:  p.Threshold,
		TotalKeys:  p.TotalCosigners,
		CoinType:   p.CoinType,
		Account:    p.Account,
		ScriptType: p.ScriptType,
		Network:    net,
	}, nil
}

// Cosigner is a remote party registered with the coordinator, identified by
// its account xpub. Indexes are assigned sequentially starting from 1, the
// local party being 0, and match the registration order used for derivation.
type Cosigner struct {
	Index uint32
	Xpub  string
}

// Coordinator is the data structure driving a multi-party multisig account
// setup. It owns the local identity, either a password-protected mnemonic
// enabling signing or just the account xpub for watch-only setups, and
// collects the account xpubs of the remote cosigners until their number
// reaches TotalCosigners-1. Once complete it can build multisig wallets and
// cross-check addresses derived by the other parties.
type Coordinator struct {
	Params            CoordinatorParams
	AccountXpub       string
	EncryptedMnemonic []byte
	PasswordHash      []byte
	Cosigners         []Cosigner
}

// NewCoordinator returns a signing-capable coordinator. The mnemonic is
// encrypted with the password and the coordinator is locked by default since
// the plaintext is not set in the store. The account xpub is derived upfront
// so that it stays available while locked.
func NewCoordinator(
	mnemonic []string, password string, params CoordinatorParams,
) (*Coordinator, error) {
	if len(mnemonic) <= 0 {
		return nil, ErrCoordinatorMissingMnemonic
	}
	if len(password) <= 0 {
		return nil, ErrCoordinatorMissingPassword
	}
	accountArgs, err := params.accountArgs()
	if err != nil {
		return nil, err
	}

	wallet, err := multisig.NewWalletFromMnemonic(
		multisig.NewWalletFromMnemonicArgs{
			AccountArgs: accountArgs,
			Mnemonic:    mnemonic,
		},
	)
	if err != nil {
		return nil, err
	}
	accountXpub, err := wallet.AccountExtendedPublicKey()
	if err != nil {
		return nil, err
	}

	strMnemonic := strings.Join(mnemonic, " ")
	encryptedMnemonic, err := MnemonicCypher.Encrypt(
		[]byte(strMnemonic), []byte(password),
	)
	if err != nil {
		return nil, err
	}

	return &Coordinator{
		Params:            params,
		AccountXpub:       accountXpub,
		EncryptedMnemonic: encryptedMnemonic,
		PasswordHash:      btcutil.Hash160([]byte(password)),
	}, nil
}

// NewWatchOnlyCoordinator returns a coordinator built from a previously
// shared account xpub, with no signing capability.
func NewWatchOnlyCoordinator(
	accountXpub string, params CoordinatorParams,
) (*Coordinator, error) {
	if len(accountXpub) <= 0 {
		return nil, ErrCoordinatorMissingAccountXpub
	}
	accountArgs, err := params.accountArgs()
	if err != nil {
		return nil, err
	}

	wallet, err := multisig.NewWalletFromXpub(multisig.NewWalletFromXpubArgs{
		AccountArgs: accountArgs,
		AccountXpub: accountXpub,
	})
	if err != nil {
		return nil, err
	}
	xpub, err := wallet.AccountExtendedPublicKey()
	if err != nil {
		return nil, err
	}

	return &Coordinator{
		Params:      params,
		AccountXpub: xpub,
	}, nil
}

// CanSign returns whether the coordinator holds the (encrypted) mnemonic of
// the local party or only its account xpub.
func (c *Coordinator) CanSign() bool {
	return len(c.EncryptedMnemonic) > 0
}

// IsLocked returns whether the plaintext mnemonic is set in the store.
// Watch-only coordinators have nothing to unlock and are never locked.
func (c *Coordinator) IsLocked() bool {
	return c.CanSign() && !MnemonicStore.IsSet()
}

// GetMnemonic safely returns the plaintext mnemonic.
func (c *Coordinator) GetMnemonic() ([]string, error) {
	if !c.CanSign() {
		return nil, ErrCoordinatorWatchOnly
	}
	if c.IsLocked() {
		return nil, ErrCoordinatorLocked
	}
	return MnemonicStore.Get(), nil
}

// Lock locks the coordinator by wiping the plaintext mnemonic from the store.
func (c *Coordinator) Lock(password string) error {
	if c.IsLocked() {
		return nil
	}
	if !c.CanSign() {
		return ErrCoordinatorWatchOnly
	}
	if !c.IsValidPassword(password) {
		return ErrCoordinatorInvalidPassword
	}

	MnemonicStore.Unset()
	return nil
}

// Unlock attempts to decrypt the encrypted mnemonic with the provided
// password and to set the plaintext in the store.
func (c *Coordinator) Unlock(password string) error {
	if !c.CanSign() {
		return ErrCoordinatorWatchOnly
	}
	if !c.IsLocked() {
		return nil
	}
	if !c.IsValidPassword(password) {
		return ErrCoordinatorInvalidPassword
	}

	mnemonic, err := MnemonicCypher.Decrypt(
		c.EncryptedMnemonic, []byte(password),
	)
	if err != nil {
		return err
	}

	MnemonicStore.Set(string(mnemonic))
	return nil
}

// ChangePassword attempts to decrypt the mnemonic with the current password
// and encrypts it again with the new one. The coordinator must be locked.
func (c *Coordinator) ChangePassword(currentPassword, newPassword string) error {
	if !c.CanSign() {
		return ErrCoordinatorWatchOnly
	}
	if !c.IsLocked() {
		return ErrCoordinatorUnlocked
	}
	if !c.IsValidPassword(currentPassword) {
		return ErrCoordinatorInvalidPassword
	}
	if len(newPassword) <= 0 {
		return ErrCoordinatorMissingPassword
	}

	mnemonic, err := MnemonicCypher.Decrypt(
		c.EncryptedMnemonic, []byte(currentPassword),
	)
	if err != nil {
		return err
	}
	encryptedMnemonic, err := MnemonicCypher.Encrypt(
		mnemonic, []byte(newPassword),
	)
	if err != nil {
		return err
	}

	c.EncryptedMnemonic = encryptedMnemonic
	c.PasswordHash = btcutil.Hash160([]byte(newPassword))
	return nil
}

func (c *Coordinator) IsValidPassword(password string) bool {
	return bytes.Equal(c.PasswordHash, btcutil.Hash160([]byte(password)))
}

// AccountExtendedPublicKey returns the local account xpub, the value to be
// published to the other parties.
func (c *Coordinator) AccountExtendedPublicKey() (string, error) {
	if len(c.AccountXpub) <= 0 {
		return "", ErrCoordinatorMissingAccountXpub
	}
	return c.AccountXpub, nil
}

// AddCosigner registers the account xpub of a remote party and assigns it
// the next sequential index. Cosigners cannot be removed once added, and
// registering the same xpub twice is not prevented here.
func (c *Coordinator) AddCosigner(xpub string) (*Cosigner, error) {
	if c.IsComplete() {
		return nil, ErrCoordinatorComplete
	}
	if err := multisig.ValidateXpub(xpub); err != nil {
		return nil, err
	}

	cosigner := Cosigner{
		Index: uint32(len(c.Cosigners)) + 1,
		Xpub:  xpub,
	}
	c.Cosigners = append(c.Cosigners, cosigner)
	return &cosigner, nil
}

// IsComplete returns whether every remote cosigner has been registered.
func (c *Coordinator) IsComplete() bool {
	return len(c.Cosigners) == int(c.Params.TotalCosigners)-1
}

// CreateWallet builds a fresh multisig wallet from the local identity and
// feeds it the registered cosigner xpubs in registration order. Address
// derivation needs public material only, so a locked coordinator falls back
// to its account xpub.
func (c *Coordinator) CreateWallet() (*multisig.Wallet, error) {
	if !c.IsComplete() {
		return nil, ErrCoordinatorNotComplete
	}

	accountArgs, err := c.Params.accountArgs()
	if err != nil {
		return nil, err
	}

	var wallet *multisig.Wallet
	if c.CanSign() && !c.IsLocked() {
		wallet, err = multisig.NewWalletFromMnemonic(
			multisig.NewWalletFromMnemonicArgs{
				AccountArgs: accountArgs,
				Mnemonic:    MnemonicStore.Get(),
			},
		)
	} else {
		wallet, err = multisig.NewWalletFromXpub(
			multisig.NewWalletFromXpubArgs{
				AccountArgs: accountArgs,
				AccountXpub: c.AccountXpub,
			},
		)
	}
	if err != nil {
		return nil, err
	}

	for _, cosigner := range c.Cosigners {
		if err := wallet.AddCosignerXpub(cosigner.Xpub); err != nil {
			return nil, err
		}
	}
	return wallet, nil
}

// AddressesForVerification derives one multisig address per requested index,
// in the given order, to be shared with the other parties for cross-checking.
func (c *Coordinator) AddressesForVerification(
	indexes []uint32, change bool,
) ([]string, error) {
	if !c.IsComplete() {
		return nil, ErrCoordinatorNotComplete
	}

	wallet, err := c.CreateWallet()
	if err != nil {
		return nil, err
	}

	addresses := make([]string, 0, len(indexes))
	for _, index := range indexes {
		addr, err := wallet.DeriveMultisigAddress(
			multisig.DeriveMultisigAddressArgs{Index: index, Change: change},
		)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, addr)
	}
	return addresses, nil
}

// VerifyAddresses compares the addresses shared by another party against the
// independently derived ones at the matching indexes. A mismatch anywhere is
// an expected outcome of the protocol, not an error, so the check fails
// closed by returning false, also if registration is not complete yet.
func (c *Coordinator) VerifyAddresses(
	addresses []string, indexes []uint32, change bool,
) bool {
	if !c.IsComplete() {
		return false
	}
	if len(addresses) != len(indexes) {
		return false
	}

	derivedAddresses, err := c.AddressesForVerification(indexes, change)
	if err != nil {
		return false
	}
	for i, addr := range derivedAddresses {
		if addresses[i] != addr {
			return false
		}
	}
	return true
}
