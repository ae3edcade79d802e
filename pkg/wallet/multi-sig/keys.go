package multisig

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/txscript"
)

const (
	externalChain = 0
	internalChain = 1
)

// AccountExtendedPrivateKey returns the account-level extended private key in
// base58 format. It fails for watch-only wallets.
func (w *Wallet) AccountExtendedPrivateKey() (string, error) {
	if err := w.validate(); err != nil {
		return "", err
	}
	if !w.CanSign() {
		return "", ErrWatchOnlyWallet
	}

	return base58.Encode(w.signingMasterKey), nil
}

// AccountExtendedPublicKey returns the account-level extended public key in
// base58 format. This is the value meant to be shared with the other
// cosigners, and is available for both signing and watch-only wallets.
func (w *Wallet) AccountExtendedPublicKey() (string, error) {
	if err := w.validate(); err != nil {
		return "", err
	}

	return w.xpubs[0], nil
}

type DeriveChildPublicKeyArgs struct {
	Index  uint32
	Change bool
}

func (a DeriveChildPublicKeyArgs) validate() error {
	if a.Index >= hdkeychain.HardenedKeyStart {
		return ErrOutOfRangeDerivationIndex
	}
	return nil
}

// DeriveChildPublicKey derives the public key of the local account at the
// given address index, on the receiving or change branch. Both steps of the
// derivation are non-hardened, per BIP48, so the index must stay below the
// hardened boundary.
func (w *Wallet) DeriveChildPublicKey(
	args DeriveChildPublicKeyArgs,
) (*btcec.PublicKey, error) {
	if err := args.validate(); err != nil {
		return nil, err
	}
	if err := w.validate(); err != nil {
		return nil, err
	}

	accountKey := w.xpubs[0]
	if w.CanSign() {
		accountKey = base58.Encode(w.signingMasterKey)
	}
	return deriveChildKey(accountKey, args.Index, args.Change)
}

type DeriveMultisigAddressArgs struct {
	Index  uint32
	Change bool
}

func (a DeriveMultisigAddressArgs) validate() error {
	if a.Index >= hdkeychain.HardenedKeyStart {
		return ErrOutOfRangeDerivationIndex
	}
	return nil
}

// MultisigScript assembles the raw M-of-N checkmultisig script at the given
// address index. The cosigner child keys are listed in registration order,
// the same for every party, since reordering them changes the script and
// therefore the resulting address.
func (w *Wallet) MultisigScript(args DeriveMultisigAddressArgs) ([]byte, error) {
	if err := args.validate(); err != nil {
		return nil, err
	}
	if err := w.validate(); err != nil {
		return nil, err
	}
	if len(w.xpubs) != int(w.totalKeys) {
		return nil, ErrMissingCosignerXpubs
	}

	pubKeys := make([]*btcutil.AddressPubKey, 0, len(w.xpubs))
	for _, xpub := range w.xpubs {
		childKey, err := deriveChildKey(xpub, args.Index, args.Change)
		if err != nil {
			return nil, err
		}
		pubKey, err := btcutil.NewAddressPubKey(
			childKey.SerializeCompressed(), w.net,
		)
		if err != nil {
			return nil, err
		}
		pubKeys = append(pubKeys, pubKey)
	}

	return txscript.MultiSigScript(pubKeys, int(w.threshold))
}

// RedeemScript returns the hex-encoded redeem and witness scripts embedding
// the checkmultisig condition at the given address index, to be exported to
// descriptors or external signers. Scripts not used by the wallet's script
// type are empty.
func (w *Wallet) RedeemScript(
	args DeriveMultisigAddressArgs,
) (string, string, error) {
	script, err := w.MultisigScript(args)
	if err != nil {
		return "", "", err
	}

	redeemScript, witnessScript, err := w.scriptType.Scripts(script)
	if err != nil {
		return "", "", err
	}
	return hex.EncodeToString(redeemScript), hex.EncodeToString(witnessScript), nil
}

// DeriveMultisigAddress derives the multisig address at the given address
// index by wrapping the checkmultisig script per the wallet's script type.
// It fails until the cosigner key list is filled up with all TotalKeys xpubs.
func (w *Wallet) DeriveMultisigAddress(
	args DeriveMultisigAddressArgs,
) (string, error) {
	script, err := w.MultisigScript(args)
	if err != nil {
		return "", err
	}

	addr, err := w.scriptType.Address(script, w.net)
	if err != nil {
		return "", err
	}
	return addr.EncodeAddress(), nil
}

func deriveChildKey(
	accountKey string, index uint32, change bool,
) (*btcec.PublicKey, error) {
	hdNode, err := hdkeychain.NewKeyFromString(accountKey)
	if err != nil {
		return nil, err
	}

	chainIndex := uint32(externalChain)
	if change {
		chainIndex = internalChain
	}
	for _, step := range []uint32{chainIndex, index} {
		hdNode, err = hdNode.Derive(step)
		if err != nil {
			return nil, err
		}
	}

	return hdNode.ECPubKey()
}
