// Copyright 2022 Dimitrij Drus <dadrus@gmx.de>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"context"
	"errors"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

var ErrNoCacheEntry = errors.New("no cache entry")

type Cache interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error

	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

type memoryCache struct {
	c *ttlcache.Cache[string, string]
}

// NewMemoryCache creates an in-process cache. Entries do not survive a restart.
func NewMemoryCache() Cache {
	return &memoryCache{
		c: ttlcache.New[string, string](
			ttlcache.WithDisableTouchOnHit[string, string](),
		),
	}
}

func (c *memoryCache) Start(_ context.Context) error {
	go c.c.Start()

	return nil
}

func (c *memoryCache) Stop(_ context.Context) error {
	c.c.Stop()

	return nil
}

func (c *memoryCache) Get(_ context.Context, key string) (string, error) {
	item := c.c.Get(key)
	if item == nil || item.IsExpired() {
		return "", ErrNoCacheEntry
	}

	return item.Value(), nil
}

func (c *memoryCache) Set(_ context.Context, key string, value string, ttl time.Duration) {
	c.c.Set(key, value, ttl)
}

func (c *memoryCache) Delete(_ context.Context, key string) {
	c.c.Delete(key)
}
