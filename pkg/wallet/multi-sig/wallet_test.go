package multisig_test

import (
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/require"
	multisig "github.com/vulpemventures/go-bip48/pkg/wallet/multi-sig"
)

var (
	// BIP32 test vector seeds, handy as deterministic cosigner identities.
	testSeeds = []string{
		"000102030405060708090a0b0c0d0e0f",
		"fffcf9f6f3f0edeae7e4e1dedbd8d5d2cfccc9c6c3c0bdbab7b4b1aeaba8a5a2",
		"4b381541583be4423346c643850da4b320e46a87ae3d2a4e6da11eba819cd4ac" +
			"ba45d239319ac14f863b8d5ab5a0d0c64d2e8a1e7d1457df2e5a3c51c73235be",
	}

	testAccountArgs = multisig.AccountArgs{
		Threshold:  2,
		TotalKeys:  3,
		CoinType:   0,
		Account:    0,
		ScriptType: multisig.ScriptTypeP2SH,
		Network:    &chaincfg.MainNetParams,
	}
)

// newTestWallets returns one signing wallet per test seed, with the given
// account args, before any cosigner registration.
func newTestWallets(t *testing.T, args multisig.AccountArgs) []*multisig.Wallet {
	t.Helper()

	wallets := make([]*multisig.Wallet, 0, len(testSeeds))
	for _, strSeed := range testSeeds {
		seed, err := hex.DecodeString(strSeed)
		require.NoError(t, err)

		wallet, err := multisig.NewWalletFromSeed(multisig.NewWalletFromSeedArgs{
			AccountArgs: args,
			Seed:        seed,
		})
		require.NoError(t, err)
		wallets = append(wallets, wallet)
	}
	return wallets
}

// testXpubs returns the account xpub of every test wallet, in seed order.
func testXpubs(t *testing.T, wallets []*multisig.Wallet) []string {
	t.Helper()

	xpubs := make([]string, 0, len(wallets))
	for _, wallet := range wallets {
		xpub, err := wallet.AccountExtendedPublicKey()
		require.NoError(t, err)
		xpubs = append(xpubs, xpub)
	}
	return xpubs
}

func TestNewWallet(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		w, err := multisig.NewWallet(multisig.NewWalletArgs{
			AccountArgs: testAccountArgs,
		})
		require.NoError(t, err)
		require.True(t, w.CanSign())

		mnemonic, err := w.Mnemonic()
		require.NoError(t, err)
		require.Len(t, mnemonic, 24)

		otherWallet, err := multisig.NewWalletFromMnemonic(
			multisig.NewWalletFromMnemonicArgs{
				AccountArgs: testAccountArgs,
				Mnemonic:    mnemonic,
			},
		)
		require.NoError(t, err)
		require.Equal(t, *w, *otherWallet)
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name string
			args multisig.NewWalletArgs
			err  error
		}{
			{
				name: "threshold greater than total keys",
				args: multisig.NewWalletArgs{
					AccountArgs: multisig.AccountArgs{
						Threshold: 4, TotalKeys: 3,
						Network: &chaincfg.MainNetParams,
					},
				},
				err: multisig.ErrInvalidThreshold,
			},
			{
				name: "zero threshold",
				args: multisig.NewWalletArgs{
					AccountArgs: multisig.AccountArgs{
						Threshold: 0, TotalKeys: 3,
						Network: &chaincfg.MainNetParams,
					},
				},
				err: multisig.ErrInvalidThreshold,
			},
			{
				name: "coin type beyond hardened boundary",
				args: multisig.NewWalletArgs{
					AccountArgs: multisig.AccountArgs{
						Threshold: 2, TotalKeys: 3,
						CoinType: 1 << 31,
						Network:  &chaincfg.MainNetParams,
					},
				},
				err: multisig.ErrOutOfRangeCoinType,
			},
			{
				name: "account beyond hardened boundary",
				args: multisig.NewWalletArgs{
					AccountArgs: multisig.AccountArgs{
						Threshold: 2, TotalKeys: 3,
						Account: 1 << 31,
						Network: &chaincfg.MainNetParams,
					},
				},
				err: multisig.ErrOutOfRangeAccount,
			},
			{
				name: "unknown script type",
				args: multisig.NewWalletArgs{
					AccountArgs: multisig.AccountArgs{
						Threshold: 2, TotalKeys: 3,
						ScriptType: multisig.ScriptType(5),
						Network:    &chaincfg.MainNetParams,
					},
				},
				err: multisig.ErrInvalidScriptType,
			},
			{
				name: "missing network",
				args: multisig.NewWalletArgs{
					AccountArgs: multisig.AccountArgs{
						Threshold: 2, TotalKeys: 3,
					},
				},
				err: multisig.ErrMissingNetwork,
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := multisig.NewWallet(tt.args)
				require.EqualError(t, tt.err, err.Error())
			})
		}
	})
}

func TestNewWalletFromMnemonic(t *testing.T) {
	t.Parallel()

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name string
			args multisig.NewWalletFromMnemonicArgs
			err  error
		}{
			{
				name: "missing mnemonic",
				args: multisig.NewWalletFromMnemonicArgs{
					AccountArgs: testAccountArgs,
				},
				err: multisig.ErrMissingMnemonic,
			},
			{
				name: "invalid mnemonic",
				args: multisig.NewWalletFromMnemonicArgs{
					AccountArgs: testAccountArgs,
					Mnemonic: []string{
						"legal", "winner", "thank", "year", "wave", "sausage",
						"worth", "useful", "legal", "winner", "thank", "thank",
					},
				},
				err: multisig.ErrInvalidMnemonic,
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := multisig.NewWalletFromMnemonic(tt.args)
				require.EqualError(t, tt.err, err.Error())
			})
		}
	})
}

func TestNewWalletFromSeed(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		wallets := newTestWallets(t, testAccountArgs)
		signingWallet := wallets[0]
		require.True(t, signingWallet.CanSign())

		xprv, err := signingWallet.AccountExtendedPrivateKey()
		require.NoError(t, err)
		require.NotEmpty(t, xprv)

		xpub, err := signingWallet.AccountExtendedPublicKey()
		require.NoError(t, err)
		require.NotEmpty(t, xpub)

		// The watch-only counterpart built from the shared xpub must expose
		// the very same account public key.
		watchOnlyWallet, err := multisig.NewWalletFromXpub(
			multisig.NewWalletFromXpubArgs{
				AccountArgs: testAccountArgs,
				AccountXpub: xpub,
			},
		)
		require.NoError(t, err)
		require.False(t, watchOnlyWallet.CanSign())

		otherXpub, err := watchOnlyWallet.AccountExtendedPublicKey()
		require.NoError(t, err)
		require.Equal(t, xpub, otherXpub)

		_, err = watchOnlyWallet.AccountExtendedPrivateKey()
		require.EqualError(t, multisig.ErrWatchOnlyWallet, err.Error())
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()

		_, err := multisig.NewWalletFromSeed(multisig.NewWalletFromSeedArgs{
			AccountArgs: testAccountArgs,
		})
		require.EqualError(t, multisig.ErrMissingSeed, err.Error())
	})
}

func TestValidateXpub(t *testing.T) {
	t.Parallel()

	wallets := newTestWallets(t, testAccountArgs)
	xpubs := testXpubs(t, wallets)

	require.NoError(t, multisig.ValidateXpub(xpubs[0]))

	require.Error(t, multisig.ValidateXpub("not a valid xpub"))

	err := multisig.ValidateXpub("")
	require.EqualError(t, multisig.ErrMissingAccountXpub, err.Error())

	xprv, err := wallets[0].AccountExtendedPrivateKey()
	require.NoError(t, err)
	err = multisig.ValidateXpub(xprv)
	require.EqualError(t, multisig.ErrXpubIsPrivate, err.Error())
}

func TestAddCosignerXpub(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		wallets := newTestWallets(t, testAccountArgs)
		xpubs := testXpubs(t, wallets)

		w := wallets[0]
		require.NoError(t, w.AddCosignerXpub(xpubs[1]))
		require.NoError(t, w.AddCosignerXpub(xpubs[2]))
		require.Equal(t, xpubs, w.CosignerXpubs())

		// Capacity is bounded by the total number of keys.
		err := w.AddCosignerXpub(xpubs[1])
		require.EqualError(t, multisig.ErrCosignerSetFilled, err.Error())
	})

	t.Run("duplicates are not rejected", func(t *testing.T) {
		t.Parallel()

		wallets := newTestWallets(t, testAccountArgs)
		xpubs := testXpubs(t, wallets)

		// Registering the same cosigner twice is allowed, callers are in
		// charge of preventing it.
		w := wallets[0]
		require.NoError(t, w.AddCosignerXpub(xpubs[1]))
		require.NoError(t, w.AddCosignerXpub(xpubs[1]))
		require.Equal(
			t, []string{xpubs[0], xpubs[1], xpubs[1]}, w.CosignerXpubs(),
		)
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()

		wallets := newTestWallets(t, testAccountArgs)
		w := wallets[0]

		err := w.AddCosignerXpub("not a valid xpub")
		require.Error(t, err)

		xprv, err := wallets[1].AccountExtendedPrivateKey()
		require.NoError(t, err)
		err = w.AddCosignerXpub(xprv)
		require.EqualError(t, multisig.ErrXpubIsPrivate, err.Error())
	})
}
