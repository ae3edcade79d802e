package multisig

import (
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	path "github.com/vulpemventures/go-bip48/pkg/wallet/derivation-path"
)

// Purpose is the purpose index of the BIP48 multi-script hierarchy.
const Purpose = 48

// DerivationPathForAccount returns the account-level derivation path
// m/48'/coin_type'/account'/script_type' with every step hardened.
// The path is meant to be applied to a master key once, to obtain the
// account-level key, and never applied again afterwards.
func DerivationPathForAccount(
	coinType, account uint32, scriptType ScriptType,
) path.DerivationPath {
	return path.DerivationPath{
		hdkeychain.HardenedKeyStart + Purpose,
		hdkeychain.HardenedKeyStart + coinType,
		hdkeychain.HardenedKeyStart + account,
		hdkeychain.HardenedKeyStart + scriptType.PathIndex(),
	}
}

// ParseDerivationPathForAccount parses the string form of a BIP48 account
// derivation path and returns its coin type, account and script type
// components. It's the inverse of DerivationPathForAccount, handy when the
// parties agree on the literal path instead of its single components.
func ParseDerivationPathForAccount(
	strPath string,
) (uint32, uint32, ScriptType, error) {
	accountPath, err := path.ParseAccountDerivationPath(strPath)
	if err != nil {
		return 0, 0, 0, err
	}
	if len(accountPath) != 4 ||
		accountPath[0] != hdkeychain.HardenedKeyStart+Purpose {
		return 0, 0, 0, ErrInvalidAccountDerivationPath
	}

	scriptType := ScriptType(accountPath[3] - hdkeychain.HardenedKeyStart)
	if err := scriptType.validate(); err != nil {
		return 0, 0, 0, err
	}

	coinType := accountPath[1] - hdkeychain.HardenedKeyStart
	account := accountPath[2] - hdkeychain.HardenedKeyStart
	return coinType, account, scriptType, nil
}
