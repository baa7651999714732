package node

import (
	"github.com/urfave/cli/v2"

	"github.com/vitreusNetwork/VTRS_core/shared/cmd"
	"github.com/vitreusNetwork/VTRS_core/shared/params"
)

// configureChainConfig gets config from yaml file
func configureChainConfig(cliCtx *cli.Context) error {
	if cliCtx.IsSet(cmd.ChainConfigFileFlag.Name) {
		chainConfigFileName := cliCtx.String(cmd.ChainConfigFileFlag.Name)
		return params.LoadChainConfigFile(chainConfigFileName)
	}
	return nil
}
