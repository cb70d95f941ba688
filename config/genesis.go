package config

import "github.com/tolelom/tolchain/core"

// ApplyGenesis credits every account in cfg.Genesis.Alloc and commits the
// write. Called once when a fresh data directory is detected.
func ApplyGenesis(cfg *Config, state core.State) error {
	for pubkeyHex, balance := range cfg.Genesis.Alloc {
		acc := &core.Account{Address: pubkeyHex, Balance: balance}
		if err := state.SetAccount(acc); err != nil {
			return err
		}
	}
	return state.Commit()
}
