package adapters

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// AdapterConstructor создает неподключенный адаптер
type AdapterConstructor func() Adapter

// Factory реестр адаптеров. Тип базы сравнивается без учета регистра.
type Factory struct {
	mu           sync.RWMutex
	constructors map[string]AdapterConstructor
}

// NewFactory создает пустую фабрику
func NewFactory() *Factory {
	return &Factory{constructors: make(map[string]AdapterConstructor)}
}

func normalizeType(dbType string) string {
	return strings.ToLower(strings.TrimSpace(dbType))
}

// Register добавляет конструктор. Повторная регистрация заменяет прежний.
// Пустой тип или nil конструктор считаются ошибкой программы.
func (f *Factory) Register(dbType string, constructor AdapterConstructor) {
	key := normalizeType(dbType)
	if key == "" || constructor == nil {
		panic("adapters: Register called with empty type or nil constructor")
	}

	f.mu.Lock()
	f.constructors[key] = constructor
	f.mu.Unlock()
}

// Unregister удаляет тип из реестра
func (f *Factory) Unregister(dbType string) {
	f.mu.Lock()
	delete(f.constructors, normalizeType(dbType))
	f.mu.Unlock()
}

// IsRegistered проверяет, есть ли адаптер для типа
func (f *Factory) IsRegistered(dbType string) bool {
	_, ok := f.lookup(dbType)
	return ok
}

// GetRegisteredTypes зарегистрированные типы по алфавиту
func (f *Factory) GetRegisteredTypes() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	types := make([]string, 0, len(f.constructors))
	for key := range f.constructors {
		types = append(types, key)
	}
	slices.Sort(types)
	return types
}

// Create создает адаптер и подключается к базе
func (f *Factory) Create(ctx context.Context, cfg Config) (Adapter, error) {
	adapter, err := f.CreateWithoutConnect(cfg.Type)
	if err != nil {
		return nil, err
	}
	if err := adapter.Connect(ctx, cfg); err != nil {
		return nil, err
	}
	return adapter, nil
}

// CreateWithoutConnect создает адаптер, например для QuoteIdentifier
func (f *Factory) CreateWithoutConnect(dbType string) (Adapter, error) {
	constructor, ok := f.lookup(dbType)
	if !ok {
		return nil, fmt.Errorf("unknown database type '%s' (available: %s)",
			dbType, strings.Join(f.GetRegisteredTypes(), ", "))
	}
	return constructor(), nil
}

func (f *Factory) lookup(dbType string) (AdapterConstructor, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	c, ok := f.constructors[normalizeType(dbType)]
	return c, ok
}

var defaultFactory = NewFactory()

// Register добавляет адаптер в общую фабрику. Вызывается из init() пакетов адаптеров.
func Register(dbType string, constructor AdapterConstructor) {
	defaultFactory.Register(dbType, constructor)
}

func Unregister(dbType string) { defaultFactory.Unregister(dbType) }

func IsRegistered(dbType string) bool { return defaultFactory.IsRegistered(dbType) }

func GetRegisteredTypes() []string { return defaultFactory.GetRegisteredTypes() }

// New создает адаптер из общей фабрики и подключается
func New(ctx context.Context, cfg Config) (Adapter, error) {
	return defaultFactory.Create(ctx, cfg)
}

// NewWithoutConnect создает адаптер из общей фабрики без подключения
func NewWithoutConnect(dbType string) (Adapter, error) {
	return defaultFactory.CreateWithoutConnect(dbType)
}
