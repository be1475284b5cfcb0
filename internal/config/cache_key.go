package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// RevokedTokenKey returns the cache key marking a JWT as logged out
func (r *CacheKeyStruct) RevokedTokenKey(tokenID string) string {
	return fmt.Sprintf("auth:revoked:%s", tokenID)
}

// CourseListKey returns the cache key for a filtered course listing
func (r *CacheKeyStruct) CourseListKey(regulationID, semester int) string {
	return fmt.Sprintf("cache:courses:%d:%d", regulationID, semester)
}

// CourseListPattern matches every cached course listing
func (r *CacheKeyStruct) CourseListPattern() string {
	return "cache:courses:*"
}

// RegulationListKey returns the cache key for the regulation listing
func (r *CacheKeyStruct) RegulationListKey() string {
	return "cache:regulations"
}

// NotificationChannel returns the Redis PubSub channel for a user's live notifications
func (r *CacheKeyStruct) NotificationChannel(accountID int) string {
	return fmt.Sprintf("notifications:user:%d", accountID)
}

var CacheKey = NewCacheKeyStruct()
