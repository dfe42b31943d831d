package cache

import (
	"context"
	"strings"
)

// Open picks a backend from a location string:
//
//	"" or "none"                          NullCache
//	redis://... or rediss://...           RedisCache
//	mongodb://... or mongodb+srv://...    MongoCache (runmap.cache)
//	file:///path or /path                 FileCache
func Open(ctx context.Context, location string) (Cache, error) {
	switch {
	case location == "" || location == "none":
		return NewNullCache(), nil
	case strings.HasPrefix(location, "redis://"), strings.HasPrefix(location, "rediss://"):
		c, err := NewRedisCache(ctx, location)
		if err != nil {
			return nil, err
		}
		return c, nil
	case strings.HasPrefix(location, "mongodb://"), strings.HasPrefix(location, "mongodb+srv://"):
		c, err := NewMongoCache(ctx, location, MongoDatabase, MongoCollection)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	c, err := NewFileCache(strings.TrimPrefix(location, "file://"))
	if err != nil {
		return nil, err
	}
	return c, nil
}
