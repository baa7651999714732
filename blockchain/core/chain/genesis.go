package chain

import (
	"io/ioutil"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/vitreusNetwork/VTRS_core/blockchain/runtime"
	"github.com/vitreusNetwork/VTRS_core/blockchain/state"
	"gopkg.in/yaml.v2"
)

// ErrAlreadyInitialized is returned when genesis is applied to a non-empty
// chain.
var ErrAlreadyInitialized = errors.New("Chain state already initialized")

// Genesis describes the initial chain state.
type Genesis struct {
	SudoKey      string            `yaml:"SUDO_KEY"`
	VtrsBalances map[string]uint64 `yaml:"VTRS_BALANCES"`
	VnrgBalances map[string]uint64 `yaml:"VNRG_BALANCES"`
}

// LoadGenesisFile reads a genesis definition from a yaml file.
func LoadGenesisFile(path string) (*Genesis, error) {
	data, err := ioutil.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, errors.Wrap(err, "can't read genesis file")
	}

	g := &Genesis{}
	if err := yaml.Unmarshal(data, g); err != nil {
		return nil, errors.Wrap(err, "can't unmarshal genesis file")
	}

	return g, nil
}

// ApplyGenesis writes the initial balances and the sudo key. Only allowed on
// a chain whose block number is still zero.
func (s *Service) ApplyGenesis(g *Genesis) error {
	number, err := s.BlockNumber()
	if err != nil {
		return err
	}
	if number != 0 {
		return ErrAlreadyInitialized
	}

	overlay := state.NewBuffered(s.base)

	m, err := s.modulesFor(overlay, runtime.DiscardSink{})
	if err != nil {
		return err
	}

	if g.SudoKey != "" {
		sudo := common.HexToAddress(g.SudoKey)
		if err = overlay.Put(state.RuntimeBucket, state.SudoKeyKey, sudo.Bytes()); err != nil {
			return err
		}
	}

	for addr, amount := range g.VtrsBalances {
		if err = m.Vtrs.Issue(common.HexToAddress(addr), amount); err != nil {
			return errors.Wrapf(err, "can't endow %s", addr)
		}
	}
	for addr, amount := range g.VnrgBalances {
		if err = m.Vnrg.Issue(common.HexToAddress(addr), amount); err != nil {
			return errors.Wrapf(err, "can't endow %s", addr)
		}
	}

	if err = overlay.Commit(); err != nil {
		return err
	}

	log.WithField("accounts", len(g.VtrsBalances)+len(g.VnrgBalances)).Info("Genesis state applied")
	return nil
}
