package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/vulpemventures/go-bip48/internal/core/domain"
	"github.com/vulpemventures/go-bip48/internal/core/ports"
	"github.com/vulpemventures/go-bip48/pkg/wallet/mnemonic"
)

// CoordinatorService is responsible for operations related to the setup of a
// multi-party multisig account:
//   - Generate a new random 24-words mnemonic.
//   - Create a new coordinator from scratch with given mnemonic and locked
//     with the given password, or a watch-only one from an account xpub.
//   - Unlock/lock the coordinator with a password.
//   - Change the coordinator password. It requires the coordinator to be locked.
//   - Register the account xpubs of the remote cosigners.
//   - Derive multisig addresses and cross-check those derived by the other
//     parties once every cosigner is registered.
//
// This service doesn't register any handler for coordinator events, rather it
// allows its users to register their handler to manage situations like the
// completion of the cosigner set.
type CoordinatorService struct {
	repoManager ports.RepoManager
	buildInfo   BuildInfo

	initialized bool
	unlocked    bool
	lock        *sync.RWMutex
}

func NewCoordinatorService(
	repoManager ports.RepoManager, buildInfo BuildInfo,
) *CoordinatorService {
	cs := &CoordinatorService{
		repoManager: repoManager,
		buildInfo:   buildInfo,
		lock:        &sync.RWMutex{},
	}
	c, _ := cs.repoManager.CoordinatorRepository().GetCoordinator(
		context.Background(),
	)
	if c != nil {
		cs.setInitialized()
	}
	return cs
}

func (cs *CoordinatorService) GenSeed(ctx context.Context) ([]string, error) {
	return mnemonic.NewMnemonic(mnemonic.NewMnemonicArgs{})
}

func (cs *CoordinatorService) CreateCoordinator(
	ctx context.Context, mnemonic []string, password string,
	params domain.CoordinatorParams,
) (err error) {
	defer func() {
		if err == nil {
			cs.setInitialized()
		}
	}()

	if cs.isInitialized() {
		return fmt.Errorf("coordinator is already initialized")
	}

	newCoordinator, err := domain.NewCoordinator(mnemonic, password, params)
	if err != nil {
		return
	}

	return cs.repoManager.CoordinatorRepository().CreateCoordinator(
		ctx, newCoordinator,
	)
}

func (cs *CoordinatorService) CreateWatchOnlyCoordinator(
	ctx context.Context, accountXpub string, params domain.CoordinatorParams,
) (err error) {
	defer func() {
		if err == nil {
			cs.setInitialized()
		}
	}()

	if cs.isInitialized() {
		return fmt.Errorf("coordinator is already initialized")
	}

	newCoordinator, err := domain.NewWatchOnlyCoordinator(accountXpub, params)
	if err != nil {
		return
	}

	return cs.repoManager.CoordinatorRepository().CreateCoordinator(
		ctx, newCoordinator,
	)
}

func (cs *CoordinatorService) Unlock(
	ctx context.Context, password string,
) (err error) {
	defer func() {
		if err == nil {
			cs.setUnlocked(true)
		}
	}()

	return cs.repoManager.CoordinatorRepository().UnlockCoordinator(
		ctx, password,
	)
}

func (cs *CoordinatorService) Lock(
	ctx context.Context, password string,
) (err error) {
	defer func() {
		if err == nil {
			cs.setUnlocked(false)
		}
	}()

	return cs.repoManager.CoordinatorRepository().LockCoordinator(
		ctx, password,
	)
}

func (cs *CoordinatorService) ChangePassword(
	ctx context.Context, currentPassword, newPassword string,
) error {
	return cs.repoManager.CoordinatorRepository().UpdateCoordinator(
		ctx, func(c *domain.Coordinator) (*domain.Coordinator, error) {
			if err := c.ChangePassword(
				currentPassword, newPassword,
			); err != nil {
				return nil, err
			}
			return c, nil
		},
	)
}

func (cs *CoordinatorService) GetAccountExtendedPublicKey(
	ctx context.Context,
) (string, error) {
	c, err := cs.repoManager.CoordinatorRepository().GetCoordinator(ctx)
	if err != nil {
		return "", err
	}
	return c.AccountExtendedPublicKey()
}

func (cs *CoordinatorService) AddCosigner(
	ctx context.Context, xpub string,
) (*domain.Cosigner, error) {
	return cs.repoManager.CoordinatorRepository().AddCosigner(ctx, xpub)
}

func (cs *CoordinatorService) GetVerificationAddresses(
	ctx context.Context, indexes []uint32, change bool,
) ([]string, error) {
	c, err := cs.repoManager.CoordinatorRepository().GetCoordinator(ctx)
	if err != nil {
		return nil, err
	}
	return c.AddressesForVerification(indexes, change)
}

// VerifyAddresses cross-checks the addresses shared by another party. The
// returned flag tells whether they all match the independently derived ones,
// an error is returned only if the coordinator is not initialized.
func (cs *CoordinatorService) VerifyAddresses(
	ctx context.Context, addresses []string, indexes []uint32, change bool,
) (bool, error) {
	c, err := cs.repoManager.CoordinatorRepository().GetCoordinator(ctx)
	if err != nil {
		return false, err
	}
	return c.VerifyAddresses(addresses, indexes, change), nil
}

func (cs *CoordinatorService) GetStatus(ctx context.Context) CoordinatorStatus {
	isComplete := false
	if c, _ := cs.repoManager.CoordinatorRepository().GetCoordinator(ctx); c != nil {
		isComplete = c.IsComplete()
	}
	return CoordinatorStatus{
		IsInitialized: cs.isInitialized(),
		IsUnlocked:    cs.isUnlocked(),
		IsComplete:    isComplete,
	}
}

func (cs *CoordinatorService) GetInfo(
	ctx context.Context,
) (*CoordinatorInfo, error) {
	c, err := cs.repoManager.CoordinatorRepository().GetCoordinator(ctx)
	if err != nil {
		return nil, err
	}

	accountXpub, _ := c.AccountExtendedPublicKey()
	cosigners := make([]CosignerInfo, 0, len(c.Cosigners))
	for _, cosigner := range c.Cosigners {
		cosigners = append(cosigners, CosignerInfo(cosigner))
	}
	return &CoordinatorInfo{
		Network:        c.Params.NetworkName,
		DerivationPath: c.Params.DerivationPath(),
		AccountXpub:    accountXpub,
		Threshold:      c.Params.Threshold,
		TotalCosigners: c.Params.TotalCosigners,
		ScriptType:     c.Params.ScriptType.String(),
		WatchOnly:      !c.CanSign(),
		Cosigners:      cosigners,
		BuildInfo:      cs.buildInfo,
	}, nil
}

func (cs *CoordinatorService) RegisterHandlerForCoordinatorEvent(
	eventType domain.CoordinatorEventType, handler ports.CoordinatorEventHandler,
) {
	cs.repoManager.RegisterHandlerForCoordinatorEvent(eventType, handler)
}

func (cs *CoordinatorService) setInitialized() {
	cs.lock.Lock()
	defer cs.lock.Unlock()

	cs.initialized = true
}

func (cs *CoordinatorService) isInitialized() bool {
	cs.lock.RLock()
	defer cs.lock.RUnlock()

	return cs.initialized
}

func (cs *CoordinatorService) setUnlocked(unlocked bool) {
	cs.lock.Lock()
	defer cs.lock.Unlock()

	cs.unlocked = unlocked
}

func (cs *CoordinatorService) isUnlocked() bool {
	cs.lock.RLock()
	defer cs.lock.RUnlock()

	return cs.unlocked
}
