package multisig

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
)

var (
	ErrMissingNetwork          = fmt.Errorf("missing network")
	ErrMissingMnemonic         = fmt.Errorf("missing mnemonic")
	ErrMissingSeed             = fmt.Errorf("missing seed")
	ErrMissingAccountXpub      = fmt.Errorf("missing account xpub")
	ErrMissingSigningMasterKey = fmt.Errorf("missing signing master key")
	ErrMissingCosignerXpubs    = fmt.Errorf("cosigner set is incomplete")

	ErrInvalidMnemonic   = fmt.Errorf("mnemonic is invalid")
	ErrInvalidThreshold  = fmt.Errorf("threshold must be in range [1, total_keys]")
	ErrInvalidScriptType = fmt.Errorf("unknown script type")

	ErrInvalidAccountDerivationPath = fmt.Errorf(
		"account derivation path must have form m/48'/coin_type'/account'/script_type'",
	)

	ErrOutOfRangeCoinType = fmt.Errorf(
		"coin type must be in range [0, %d]", hdkeychain.HardenedKeyStart-1,
	)
	ErrOutOfRangeAccount = fmt.Errorf(
		"account must be in range [0, %d]", hdkeychain.HardenedKeyStart-1,
	)
	ErrOutOfRangeDerivationIndex = fmt.Errorf(
		"derivation index must be in range [0, %d]", hdkeychain.HardenedKeyStart-1,
	)

	ErrCosignerSetFilled = fmt.Errorf("cosigner set is already filled")
	ErrXpubIsPrivate     = fmt.Errorf("expected an extended public key, got a private one")
	ErrWatchOnlyWallet   = fmt.Errorf("wallet is watch-only")
)
