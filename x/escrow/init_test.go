package escrow

import (
	"encoding/json"
	"testing"

	"github.com/middleman-net/middleman"
	"github.com/middleman-net/middleman/errors"
	"github.com/middleman-net/middleman/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigurationValidate(t *testing.T) {
	cases := map[string]struct {
		conf    Configuration
		wantErr *errors.Error
	}{
		"valid": {
			conf: Configuration{MinTimeout: 3 * day, MaxTimeout: 30 * day},
		},
		"missing minimum": {
			conf:    Configuration{MaxTimeout: 30 * day},
			wantErr: errors.ErrInput,
		},
		"missing maximum": {
			conf:    Configuration{MinTimeout: 3 * day},
			wantErr: errors.ErrInput,
		},
		"maximum below minimum": {
			conf:    Configuration{MinTimeout: 30 * day, MaxTimeout: 3 * day},
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.conf.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)
			}
		})
	}
}

func TestGenesisInitializer(t *testing.T) {
	opts := middleman.Options{
		"conf": json.RawMessage(`{
			"escrow": {
				"min_timeout": "72h",
				"max_timeout": "720h"
			}
		}`),
	}
	db := store.MemStore()
	var ini Initializer
	require.NoError(t, ini.FromGenesis(opts, db))

	conf, err := loadConf(db)
	require.NoError(t, err)
	assert.Equal(t, 3*day, conf.MinTimeout)
	assert.Equal(t, 30*day, conf.MaxTimeout)
}

func TestGenesisInitializerMissingConf(t *testing.T) {
	opts := middleman.Options{
		"conf": json.RawMessage(`{}`),
	}
	db := store.MemStore()
	var ini Initializer
	err := ini.FromGenesis(opts, db)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestGenesisInitializerRejectsInvalid(t *testing.T) {
	opts := middleman.Options{
		"conf": json.RawMessage(`{
			"escrow": {
				"min_timeout": "720h",
				"max_timeout": "72h"
			}
		}`),
	}
	db := store.MemStore()
	var ini Initializer
	err := ini.FromGenesis(opts, db)
	assert.True(t, errors.ErrInput.Is(err))
}
