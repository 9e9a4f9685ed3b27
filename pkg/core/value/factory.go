// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package value

import (
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes/bfloat16"
	"github.com/gomlx/mixedtensor/pkg/core/dtypes"
	"github.com/gomlx/mixedtensor/pkg/core/valuetype"
	"github.com/pkg/errors"
	"github.com/x448/float16"
	"k8s.io/klog/v2"
)

// FactoryConstructor takes a config string (optionally empty) and returns a BuilderFactory.
type FactoryConstructor func(config string) (BuilderFactory, error)

var (
	registeredFactories = make(map[string]FactoryConstructor)
	firstRegistered     string
)

// RegisterFactory with the given name, and a constructor that takes as input a configuration
// string that is passed along to the factory constructor.
//
// To be safe, call RegisterFactory during initialization of a package.
func RegisterFactory(name string, constructor FactoryConstructor) {
	if len(registeredFactories) == 0 {
		firstRegistered = name
	}
	registeredFactories[name] = constructor
}

// ListFactories returns the names of the registered factories, sorted.
func ListFactories() []string {
	return slices.Sorted(maps.Keys(registeredFactories))
}

// FactoryConfigEnvVar is the environment variable with the builder factory configuration to use
// by NewFactory.
//
// The format of config is "<factory_name>:<factory_configuration>".
// E.g.: "pooled:max_cells=65536".
const FactoryConfigEnvVar = "MIXEDTENSOR_FACTORY"

// DefaultConfig is the factory configuration to use if FactoryConfigEnvVar is not set.
var DefaultConfig string

// NewFactory returns a new BuilderFactory, configured by:
//
// 1. The environment variable FactoryConfigEnvVar, if defined.
// 2. Next the variable DefaultConfig, if defined.
// 3. The first registered factory ("default") with an empty configuration.
func NewFactory() (BuilderFactory, error) {
	config, found := os.LookupEnv(FactoryConfigEnvVar)
	if found {
		return NewFactoryWithConfig(config)
	}
	return NewFactoryWithConfig(DefaultConfig)
}

// MustNewFactory is like NewFactory, but panics on error.
func MustNewFactory() BuilderFactory {
	factory, err := NewFactory()
	if err != nil {
		exceptions.Panicf("%+v", err)
	}
	return factory
}

// NewFactoryWithConfig takes a configuration string formatted as "<factory_name>:<factory_configuration>".
// If "<factory_name>" is omitted, the first registered factory is used.
func NewFactoryWithConfig(config string) (BuilderFactory, error) {
	if len(registeredFactories) == 0 {
		return nil, errors.New("no registered builder factories")
	}
	name := firstRegistered
	factoryConfig := config
	if idx := strings.Index(config, ":"); idx != -1 {
		name = config[:idx]
		factoryConfig = config[idx+1:]
	} else if _, found := registeredFactories[config]; found {
		name = config
		factoryConfig = ""
	}
	constructor, found := registeredFactories[name]
	if !found {
		return nil, errors.Errorf("can't find builder factory %q for configuration %q, registered factories: %q",
			name, config, ListFactories())
	}
	factory, err := constructor(factoryConfig)
	if err != nil {
		return nil, errors.WithMessagef(err, "creating builder factory %q", name)
	}
	klog.V(2).Infof("value: created builder factory %q (config %q)", name, factoryConfig)
	return factory, nil
}

func init() {
	RegisterFactory(DefaultFactoryName, func(config string) (BuilderFactory, error) {
		if config != "" {
			return nil, errors.Errorf("factory %q takes no configuration, got %q", DefaultFactoryName, config)
		}
		return defaultFactory, nil
	})
	RegisterFactory(PooledFactoryName, func(config string) (BuilderFactory, error) {
		return NewPooledFactory(config)
	})
}

const (
	// DefaultFactoryName is the name of the factory returned by DefaultFactory.
	DefaultFactoryName = "default"

	// PooledFactoryName is the name of the factory that reuses cell buffers of finalized values.
	PooledFactoryName = "pooled"
)

// factory implements BuilderFactory, optionally with a pool of buffers for dense values.
type factory struct {
	name string
	pool *bufferPool
}

var defaultFactory = &factory{name: DefaultFactoryName}

// DefaultFactory returns the shared default BuilderFactory: it allocates new cells for every value.
func DefaultFactory() BuilderFactory { return defaultFactory }

// NewPooledFactory returns a BuilderFactory that reuses the cells of dense values returned with
// Value.Finalize.
//
// The config is a comma separated list of "key=value" options. Supported keys:
//
//   - max_cells: the largest number of cells of a buffer to pool. Default (0) is no limit.
func NewPooledFactory(config string) (BuilderFactory, error) {
	pool := &bufferPool{}
	for _, option := range strings.Split(config, ",") {
		option = strings.TrimSpace(option)
		if option == "" {
			continue
		}
		key, val, _ := strings.Cut(option, "=")
		switch key {
		case "max_cells":
			maxCells, err := strconv.Atoi(val)
			if err != nil || maxCells < 0 {
				return nil, errors.Errorf("invalid max_cells value %q in pooled factory configuration", val)
			}
			pool.maxCells = maxCells
		default:
			return nil, errors.Errorf("unknown option %q in pooled factory configuration %q", key, config)
		}
	}
	return &factory{name: PooledFactoryName, pool: pool}, nil
}

// Name implements BuilderFactory.
func (f *factory) Name() string { return f.name }

// CreateBuilder implements BuilderFactory.
func (f *factory) CreateBuilder(vtype valuetype.ValueType, numMappedDims, subspaceSize, expectedSubspaces int) any {
	switch vtype.CellType {
	case dtypes.Float64:
		return createBuilder[float64](f.pool, vtype, numMappedDims, subspaceSize, expectedSubspaces)
	case dtypes.Float32:
		return createBuilder[float32](f.pool, vtype, numMappedDims, subspaceSize, expectedSubspaces)
	case dtypes.BFloat16:
		return createBuilder[bfloat16.BFloat16](f.pool, vtype, numMappedDims, subspaceSize, expectedSubspaces)
	case dtypes.Float16:
		return createBuilder[float16.Float16](f.pool, vtype, numMappedDims, subspaceSize, expectedSubspaces)
	case dtypes.Int8:
		return createBuilder[int8](f.pool, vtype, numMappedDims, subspaceSize, expectedSubspaces)
	default:
		exceptions.Panicf("unsupported cell type %s for builder of %s", vtype.CellType, vtype)
		return nil
	}
}
