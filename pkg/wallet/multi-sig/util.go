package multisig

import (
	"strings"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/vulpemventures/go-bip39"
	path "github.com/vulpemventures/go-bip48/pkg/wallet/derivation-path"
)

func generateSeedFromMnemonic(mnemonic []string) []byte {
	m := strings.Join(mnemonic, " ")
	return bip39.NewSeed(m, "")
}

func isMnemonicValid(mnemonic []string) bool {
	m := strings.Join(mnemonic, " ")
	return bip39.IsMnemonicValid(m)
}

// generateSigningMasterKey applies the given account derivation path to the
// master key generated from the seed and returns the resulting account-level
// extended private key in its raw base58-decoded form.
func generateSigningMasterKey(
	seed []byte, derivationPath path.DerivationPath, net *chaincfg.Params,
) ([]byte, error) {
	hdNode, err := hdkeychain.NewMaster(seed, net)
	if err != nil {
		return nil, err
	}
	for _, step := range derivationPath {
		hdNode, err = hdNode.Derive(step)
		if err != nil {
			return nil, err
		}
	}
	return base58.Decode(hdNode.String()), nil
}

// decodeXpub makes sure the given string is a valid extended key in base58
// format and that it is public, not private.
func decodeXpub(xpub string) (*hdkeychain.ExtendedKey, error) {
	key, err := hdkeychain.NewKeyFromString(xpub)
	if err != nil {
		return nil, err
	}
	if key.IsPrivate() {
		return nil, ErrXpubIsPrivate
	}
	return key, nil
}
