package multisig

import (
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/vulpemventures/go-bip48/pkg/wallet/mnemonic"
)

// Wallet is the data structure representing one party's view of a BIP48
// M-of-N multisig account. It holds either the account-level extended private
// key, derived from a mnemonic or seed through the m/48'/coin_type'/account'/
// script_type' path, or just the account extended public key for watch-only
// use, along with the ordered list of the cosigners' account xpubs.
// The local account key is always the first entry of the list, remote
// cosigners are appended in registration order. That order is preserved all
// the way down to the multisig script, where it determines the resulting
// addresses, so it must match the order agreed with the other parties.
type Wallet struct {
	mnemonic         []string
	signingMasterKey []byte
	threshold        uint32
	totalKeys        uint32
	coinType         uint32
	account          uint32
	scriptType       ScriptType
	net              *chaincfg.Params
	xpubs            []string
}

// AccountArgs holds the multisig account parameters shared by all the wallet
// factories. Threshold and TotalKeys are the M and N of the multisig scheme,
// CoinType and Account the relative steps of the BIP48 derivation path.
type AccountArgs struct {
	Threshold  uint32
	TotalKeys  uint32
	CoinType   uint32
	Account    uint32
	ScriptType ScriptType
	Network    *chaincfg.Params
}

func (a AccountArgs) validate() error {
	if a.Threshold < 1 || a.Threshold > a.TotalKeys {
		return ErrInvalidThreshold
	}
	if a.CoinType >= hdkeychain.HardenedKeyStart {
		return ErrOutOfRangeCoinType
	}
	if a.Account >= hdkeychain.HardenedKeyStart {
		return ErrOutOfRangeAccount
	}
	if err := a.ScriptType.validate(); err != nil {
		return err
	}
	if a.Network == nil {
		return ErrMissingNetwork
	}
	return nil
}

type NewWalletArgs struct {
	AccountArgs
}

// NewWallet creates a new multisig wallet with a random mnemonic.
func NewWallet(args NewWalletArgs) (*Wallet, error) {
	if err := args.validate(); err != nil {
		return nil, err
	}

	mnemonic, _ := mnemonic.NewMnemonic(mnemonic.NewMnemonicArgs{
		EntropySize: 256,
	})
	return NewWalletFromMnemonic(NewWalletFromMnemonicArgs{
		AccountArgs: args.AccountArgs,
		Mnemonic:    mnemonic,
	})
}

type NewWalletFromMnemonicArgs struct {
	AccountArgs
	Mnemonic []string
}

func (a NewWalletFromMnemonicArgs) validate() error {
	if err := a.AccountArgs.validate(); err != nil {
		return err
	}
	if len(a.Mnemonic) == 0 {
		return ErrMissingMnemonic
	}
	if !isMnemonicValid(a.Mnemonic) {
		return ErrInvalidMnemonic
	}
	return nil
}

// NewWalletFromMnemonic creates a multisig wallet with signing capability
// from the given BIP39 mnemonic.
func NewWalletFromMnemonic(args NewWalletFromMnemonicArgs) (*Wallet, error) {
	if err := args.validate(); err != nil {
		return nil, err
	}

	seed := generateSeedFromMnemonic(args.Mnemonic)
	wallet, err := NewWalletFromSeed(NewWalletFromSeedArgs{
		AccountArgs: args.AccountArgs,
		Seed:        seed,
	})
	if err != nil {
		return nil, err
	}
	wallet.mnemonic = args.Mnemonic
	return wallet, nil
}

type NewWalletFromSeedArgs struct {
	AccountArgs
	Seed []byte
}

func (a NewWalletFromSeedArgs) validate() error {
	if err := a.AccountArgs.validate(); err != nil {
		return err
	}
	if len(a.Seed) == 0 {
		return ErrMissingSeed
	}
	return nil
}

// NewWalletFromSeed creates a multisig wallet with signing capability from
// the given raw seed. The account-level key is derived here, once, and kept
// for the whole lifetime of the wallet.
func NewWalletFromSeed(args NewWalletFromSeedArgs) (*Wallet, error) {
	if err := args.validate(); err != nil {
		return nil, err
	}

	derivationPath := DerivationPathForAccount(
		args.CoinType, args.Account, args.ScriptType,
	)
	signingMasterKey, err := generateSigningMasterKey(
		args.Seed, derivationPath, args.Network,
	)
	if err != nil {
		return nil, err
	}

	xprv, _ := hdkeychain.NewKeyFromString(base58.Encode(signingMasterKey))
	xpub, err := xprv.Neuter()
	if err != nil {
		return nil, err
	}

	return &Wallet{
		signingMasterKey: signingMasterKey,
		threshold:        args.Threshold,
		totalKeys:        args.TotalKeys,
		coinType:         args.CoinType,
		account:          args.Account,
		scriptType:       args.ScriptType,
		net:              args.Network,
		xpubs:            []string{xpub.String()},
	}, nil
}

type NewWalletFromXpubArgs struct {
	AccountArgs
	AccountXpub string
}

func (a NewWalletFromXpubArgs) validate() error {
	if err := a.AccountArgs.validate(); err != nil {
		return err
	}
	if a.AccountXpub == "" {
		return ErrMissingAccountXpub
	}
	return nil
}

// NewWalletFromXpub creates a watch-only multisig wallet from the given
// account-level extended public key, for parties that derive addresses
// without being able to sign.
func NewWalletFromXpub(args NewWalletFromXpubArgs) (*Wallet, error) {
	if err := args.validate(); err != nil {
		return nil, err
	}

	xpub, err := decodeXpub(args.AccountXpub)
	if err != nil {
		return nil, err
	}

	return &Wallet{
		threshold:  args.Threshold,
		totalKeys:  args.TotalKeys,
		coinType:   args.CoinType,
		account:    args.Account,
		scriptType: args.ScriptType,
		net:        args.Network,
		xpubs:      []string{xpub.String()},
	}, nil
}

// CanSign returns whether the wallet owns the account private key, or is a
// watch-only one built from the account xpub.
func (w *Wallet) CanSign() bool {
	return len(w.signingMasterKey) > 0
}

// Mnemonic returns the mnemonic of the wallet, if it was created from one.
func (w *Wallet) Mnemonic() ([]string, error) {
	if err := w.validate(); err != nil {
		return nil, err
	}
	if !w.CanSign() || len(w.mnemonic) == 0 {
		return nil, ErrWatchOnlyWallet
	}
	return w.mnemonic, nil
}

// Threshold returns the number of signatures required to spend from the
// multisig account.
func (w *Wallet) Threshold() uint32 {
	return w.threshold
}

// TotalKeys returns the total number of cosigner keys of the multisig
// account.
func (w *Wallet) TotalKeys() uint32 {
	return w.totalKeys
}

// CosignerXpubs returns a copy of the ordered cosigner key list, local
// account key first.
func (w *Wallet) CosignerXpubs() []string {
	xpubs := make([]string, len(w.xpubs))
	copy(xpubs, w.xpubs)
	return xpubs
}

// ValidateXpub makes sure the given string is a valid extended public key in
// base58 format, without building a wallet around it.
func ValidateXpub(xpub string) error {
	if len(xpub) <= 0 {
		return ErrMissingAccountXpub
	}
	_, err := decodeXpub(xpub)
	return err
}

// AddCosignerXpub appends the given cosigner account xpub to the key list.
// Keys must be added in the order agreed with the other parties since it
// determines the derived addresses. The same xpub added twice is not
// rejected, callers are responsible for not registering a cosigner more than
// once.
func (w *Wallet) AddCosignerXpub(xpub string) error {
	if err := w.validate(); err != nil {
		return err
	}
	if len(w.xpubs) >= int(w.totalKeys) {
		return ErrCosignerSetFilled
	}

	key, err := decodeXpub(xpub)
	if err != nil {
		return err
	}

	w.xpubs = append(w.xpubs, key.String())
	return nil
}

func (w *Wallet) validate() error {
	if len(w.signingMasterKey) <= 0 && len(w.xpubs) <= 0 {
		return ErrMissingSigningMasterKey
	}
	if w.net == nil {
		return ErrMissingNetwork
	}
	return nil
}
