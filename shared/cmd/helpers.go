package cmd

import (
	"bufio"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var log = logrus.WithField("prefix", "cmd")

// LoadEnvFile loads environment variables from the file given
// with EnvFileFlag, if any. Already-set variables take precedence.
func LoadEnvFile(cliCtx *cli.Context) error {
	if !cliCtx.IsSet(EnvFileFlag.Name) {
		return nil
	}

	envFile := cliCtx.String(EnvFileFlag.Name)
	if err := godotenv.Load(envFile); err != nil {
		return errors.Wrap(err, "can not load env file")
	}

	log.WithField("envFile", envFile).Info("Environment file loaded")
	return nil
}

// ConfirmAction uses the passed in actionText as the confirmation text displayed in the terminal.
// The user must enter Y or N to indicate whether they approve the action being
// requested. If no response is given, the denied text is displayed.
func ConfirmAction(actionText, deniedText string) (bool, error) {
	var confirmed bool
	reader := bufio.NewReader(os.Stdin)
	log.Warn(actionText)

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return false, err
		}

		trimmedLine := strings.TrimSpace(line)
		lineInput := strings.ToUpper(trimmedLine)
		if lineInput != "Y" && lineInput != "N" {
			log.Errorf("Invalid option of %s chosen, please only enter Y/N", line)
			continue
		}
		if lineInput == "Y" {
			confirmed = true
			break
		}
		log.Warn(deniedText)
		break
	}

	return confirmed, nil
}
