package domain_test

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vulpemventures/go-bip48/internal/core/domain"
	multisig "github.com/vulpemventures/go-bip48/pkg/wallet/multi-sig"
)

var (
	mnemonic = []string{
		"leave", "dice", "fine", "decrease", "dune", "ribbon", "ocean", "earn",
		"lunar", "account", "silver", "admit", "cheap", "fringe", "disorder", "trade",
		"because", "trade", "steak", "clock", "grace", "video", "jacket", "equal",
	}
	password          = "password"
	newPassword       = "newpassword"
	wrongPassword     = "wrongpassword"
	encryptedMnemonic = []byte("encrypted mnemonic")

	testParams = domain.CoordinatorParams{
		Threshold:      2,
		TotalCosigners: 3,
		CoinType:       0,
		Account:        0,
		ScriptType:     multisig.ScriptTypeP2SH,
		NetworkName:    "mainnet",
	}

	// BIP32 test vector seeds, used as deterministic remote cosigners.
	cosignerSeeds = []string{
		"000102030405060708090a0b0c0d0e0f",
		"fffcf9f6f3f0edeae7e4e1dedbd8d5d2cfccc9c6c3c0bdbab7b4b1aeaba8a5a2",
	}
)

func TestMain(m *testing.M) {
	mockedMnemonicCypher := &mockMnemonicCypher{}
	mockedMnemonicCypher.On("Encrypt", mock.Anything, mock.Anything).Return(encryptedMnemonic, nil)
	mockedMnemonicCypher.On("Decrypt", encryptedMnemonic, []byte(password)).Return([]byte(strings.Join(mnemonic, " ")), nil)
	mockedMnemonicCypher.On("Decrypt", encryptedMnemonic, []byte(newPassword)).Return([]byte(strings.Join(mnemonic, " ")), nil)
	mockedMnemonicCypher.On("Decrypt", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("invalid password"))
	domain.MnemonicCypher = mockedMnemonicCypher
	domain.MnemonicStore = newInMemoryMnemonicStore()

	os.Exit(m.Run())
}

func TestNewCoordinator(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		c, err := domain.NewCoordinator(mnemonic, password, testParams)
		require.NoError(t, err)
		require.NotNil(t, c)
		require.Equal(t, testParams, c.Params)
		require.Equal(t, encryptedMnemonic, c.EncryptedMnemonic)
		require.NotEmpty(t, c.PasswordHash)
		require.NotEmpty(t, c.AccountXpub)
		require.Empty(t, c.Cosigners)
		require.True(t, c.CanSign())
		require.False(t, c.IsComplete())
		require.Equal(t, "m/48'/0'/0'/0'", c.Params.DerivationPath())

		err = c.Unlock(password)
		require.NoError(t, err)
		require.False(t, c.IsLocked())

		m, err := c.GetMnemonic()
		require.NoError(t, err)
		require.Equal(t, mnemonic, m)

		err = c.Lock(wrongPassword)
		require.EqualError(t, domain.ErrCoordinatorInvalidPassword, err.Error())
		require.False(t, c.IsLocked())

		err = c.Lock(password)
		require.NoError(t, err)
		require.True(t, c.IsLocked())

		m, err = c.GetMnemonic()
		require.EqualError(t, domain.ErrCoordinatorLocked, err.Error())
		require.Empty(t, m)
	})

	t.Run("invalid", func(t *testing.T) {
		tests := []struct {
			name          string
			mnemonic      []string
			password      string
			params        domain.CoordinatorParams
			expectedError error
		}{
			{
				"missing mnemonic", nil, password, testParams,
				domain.ErrCoordinatorMissingMnemonic,
			},
			{
				"missing password", mnemonic, "", testParams,
				domain.ErrCoordinatorMissingPassword,
			},
			{
				"unknown network", mnemonic, password,
				domain.CoordinatorParams{
					Threshold: 2, TotalCosigners: 3,
					ScriptType:  multisig.ScriptTypeP2SH,
					NetworkName: "signet",
				},
				domain.ErrCoordinatorInvalidNetwork,
			},
			{
				"invalid threshold", mnemonic, password,
				domain.CoordinatorParams{
					Threshold: 4, TotalCosigners: 3,
					ScriptType:  multisig.ScriptTypeP2SH,
					NetworkName: "mainnet",
				},
				multisig.ErrInvalidThreshold,
			},
			{
				"unknown script type", mnemonic, password,
				domain.CoordinatorParams{
					Threshold: 2, TotalCosigners: 3,
					ScriptType:  multisig.ScriptType(5),
					NetworkName: "mainnet",
				},
				multisig.ErrInvalidScriptType,
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				c, err := domain.NewCoordinator(tt.mnemonic, tt.password, tt.params)
				require.Nil(t, c)
				require.EqualError(t, tt.expectedError, err.Error())
			})
		}
	})
}

func TestNewWatchOnlyCoordinator(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		signing, err := domain.NewCoordinator(mnemonic, password, testParams)
		require.NoError(t, err)
		xpub, err := signing.AccountExtendedPublicKey()
		require.NoError(t, err)

		c, err := domain.NewWatchOnlyCoordinator(xpub, testParams)
		require.NoError(t, err)
		require.NotNil(t, c)
		require.False(t, c.CanSign())
		require.False(t, c.IsLocked())
		require.Equal(t, xpub, c.AccountXpub)

		_, err = c.GetMnemonic()
		require.EqualError(t, domain.ErrCoordinatorWatchOnly, err.Error())
		err = c.Unlock(password)
		require.EqualError(t, domain.ErrCoordinatorWatchOnly, err.Error())
		err = c.Lock(password)
		require.EqualError(t, domain.ErrCoordinatorWatchOnly, err.Error())
	})

	t.Run("invalid", func(t *testing.T) {
		c, err := domain.NewWatchOnlyCoordinator("", testParams)
		require.Nil(t, c)
		require.EqualError(t, domain.ErrCoordinatorMissingAccountXpub, err.Error())

		c, err = domain.NewWatchOnlyCoordinator("not a valid xpub", testParams)
		require.Nil(t, c)
		require.Error(t, err)
	})
}

func TestChangePassword(t *testing.T) {
	c, err := domain.NewCoordinator(mnemonic, password, testParams)
	require.NoError(t, err)

	err = c.Unlock(password)
	require.NoError(t, err)

	err = c.ChangePassword(password, newPassword)
	require.EqualError(t, domain.ErrCoordinatorUnlocked, err.Error())

	err = c.Lock(password)
	require.NoError(t, err)

	err = c.ChangePassword(wrongPassword, newPassword)
	require.EqualError(t, domain.ErrCoordinatorInvalidPassword, err.Error())

	err = c.ChangePassword(password, newPassword)
	require.NoError(t, err)
	require.True(t, c.IsValidPassword(newPassword))
	require.False(t, c.IsValidPassword(password))

	err = c.Unlock(newPassword)
	require.NoError(t, err)

	err = c.Lock(newPassword)
	require.NoError(t, err)
}

// cosignerXpubs returns one deterministic account xpub per cosigner seed,
// derived with the coordinator's own account params.
func cosignerXpubs(t *testing.T, params domain.CoordinatorParams) []string {
	t.Helper()

	xpubs := make([]string, 0, len(cosignerSeeds))
	for _, strSeed := range cosignerSeeds {
		seed, err := hex.DecodeString(strSeed)
		require.NoError(t, err)

		wallet, err := multisig.NewWalletFromSeed(multisig.NewWalletFromSeedArgs{
			AccountArgs: multisig.AccountArgs{
				Threshold:  params.Threshold,
				TotalKeys:  params.TotalCosigners,
				CoinType:   params.CoinType,
				Account:    params.Account,
				ScriptType: params.ScriptType,
				Network:    params.Network(),
			},
			Seed: seed,
		})
		require.NoError(t, err)

		xpub, err := wallet.AccountExtendedPublicKey()
		require.NoError(t, err)
		xpubs = append(xpubs, xpub)
	}
	return xpubs
}

func newCompleteCoordinator(t *testing.T) *domain.Coordinator {
	t.Helper()

	c, err := domain.NewCoordinator(mnemonic, password, testParams)
	require.NoError(t, err)
	for _, xpub := range cosignerXpubs(t, testParams) {
		_, err := c.AddCosigner(xpub)
		require.NoError(t, err)
	}
	require.True(t, c.IsComplete())
	return c
}

func TestAddCosigner(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		c, err := domain.NewCoordinator(mnemonic, password, testParams)
		require.NoError(t, err)
		xpubs := cosignerXpubs(t, testParams)

		cosigner, err := c.AddCosigner(xpubs[0])
		require.NoError(t, err)
		require.Equal(t, uint32(1), cosigner.Index)
		require.Equal(t, xpubs[0], cosigner.Xpub)
		require.False(t, c.IsComplete())

		cosigner, err = c.AddCosigner(xpubs[1])
		require.NoError(t, err)
		require.Equal(t, uint32(2), cosigner.Index)
		require.True(t, c.IsComplete())

		_, err = c.AddCosigner(xpubs[0])
		require.EqualError(t, domain.ErrCoordinatorComplete, err.Error())
	})

	t.Run("invalid", func(t *testing.T) {
		c, err := domain.NewCoordinator(mnemonic, password, testParams)
		require.NoError(t, err)

		_, err = c.AddCosigner("not a valid xpub")
		require.Error(t, err)

		_, err = c.AddCosigner("")
		require.EqualError(t, multisig.ErrMissingAccountXpub, err.Error())

		// An extended private key must never enter the cosigner set.
		seed, err := hex.DecodeString(cosignerSeeds[0])
		require.NoError(t, err)
		wallet, err := multisig.NewWalletFromSeed(multisig.NewWalletFromSeedArgs{
			AccountArgs: multisig.AccountArgs{
				Threshold:  testParams.Threshold,
				TotalKeys:  testParams.TotalCosigners,
				ScriptType: testParams.ScriptType,
				Network:    testParams.Network(),
			},
			Seed: seed,
		})
		require.NoError(t, err)
		xprv, err := wallet.AccountExtendedPrivateKey()
		require.NoError(t, err)

		_, err = c.AddCosigner(xprv)
		require.EqualError(t, multisig.ErrXpubIsPrivate, err.Error())
	})
}

func TestCreateWallet(t *testing.T) {
	c, err := domain.NewCoordinator(mnemonic, password, testParams)
	require.NoError(t, err)

	_, err = c.CreateWallet()
	require.EqualError(t, domain.ErrCoordinatorNotComplete, err.Error())

	c = newCompleteCoordinator(t)
	require.NoError(t, c.Unlock(password))

	wallet, err := c.CreateWallet()
	require.NoError(t, err)
	require.True(t, wallet.CanSign())
	require.Len(t, wallet.CosignerXpubs(), 3)
	require.Equal(t, c.AccountXpub, wallet.CosignerXpubs()[0])

	// A locked coordinator derives from public material only, landing on the
	// same cosigner set.
	require.NoError(t, c.Lock(password))
	watchOnlyWallet, err := c.CreateWallet()
	require.NoError(t, err)
	require.False(t, watchOnlyWallet.CanSign())
	require.Equal(t, wallet.CosignerXpubs(), watchOnlyWallet.CosignerXpubs())
}

func TestAddressVerification(t *testing.T) {
	c := newCompleteCoordinator(t)
	require.NoError(t, c.Unlock(password))
	indexes := []uint32{0, 1, 2}

	addresses, err := c.AddressesForVerification(indexes, false)
	require.NoError(t, err)
	require.Len(t, addresses, 3)
	for _, addr := range addresses {
		require.True(t, strings.HasPrefix(addr, "3"))
	}

	require.True(t, c.VerifyAddresses(addresses, indexes, false))

	// Locking must not change the derived addresses.
	require.NoError(t, c.Lock(password))
	require.True(t, c.VerifyAddresses(addresses, indexes, false))

	// Change branch addresses do not match the receiving ones.
	require.False(t, c.VerifyAddresses(addresses, indexes, true))

	// Length mismatch and shuffled indexes fail the check.
	require.False(t, c.VerifyAddresses(addresses[:2], indexes, false))
	require.False(
		t, c.VerifyAddresses(addresses, []uint32{2, 1, 0}, false),
	)

	// Another party with the same cosigner set in the same order derives the
	// same addresses.
	other := newCompleteCoordinator(t)
	require.True(t, other.VerifyAddresses(addresses, indexes, false))

	// An incomplete coordinator cannot verify anything.
	incomplete, err := domain.NewCoordinator(mnemonic, password, testParams)
	require.NoError(t, err)
	require.False(t, incomplete.VerifyAddresses(addresses, indexes, false))
}
