package s3push

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// These are the keys read from the credentials file or the environment.
const (
	AccessKeyName = "S3_ACCESS_KEY"
	SecretKeyName = "S3_SECRET_KEY"
)

// DefaultCredentialsName is the file looked for in the home directory.
const DefaultCredentialsName = "environment.json"

// Credentials are the static key pair used to sign S3 requests.
type Credentials struct {
	AccessKey string
	SecretKey string
}

// DefaultCredentialsFile returns ~/environment.json, or an empty string
// if the home directory cannot be determined.
func DefaultCredentialsFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, DefaultCredentialsName)
}

// LoadCredentials reads S3_ACCESS_KEY and S3_SECRET_KEY from a structured
// file (JSON unless the extension says otherwise). Environment variables of
// the same name take precedence. A missing file is fine as long as the
// environment provides both keys. Errors wrap ErrCredentials.
func LoadCredentials(path string) (Credentials, error) {
	v := viper.New()
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)

		if filepath.Ext(path) == "" {
			v.SetConfigType("json")
		}

		err := v.ReadInConfig()

		var notFound viper.ConfigFileNotFoundError
		if err != nil && !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return Credentials{}, fmt.Errorf("%w: reading %s: %w", ErrCredentials, path, err)
		}
	}

	creds := Credentials{
		AccessKey: v.GetString(AccessKeyName),
		SecretKey: v.GetString(SecretKeyName),
	}

	if creds.AccessKey == "" || creds.SecretKey == "" {
		where := "the environment"
		if path != "" {
			where = path + " or " + where
		}

		return Credentials{}, fmt.Errorf("%w: declare %s and %s in %s",
			ErrCredentials, AccessKeyName, SecretKeyName, where)
	}

	return creds, nil
}
