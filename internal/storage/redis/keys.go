package redis

import (
	"fmt"

	"github.com/mcoot/wordduel/internal/model"
)

// Key prefix for all word duel data
const keyPrefix = "wduel"

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// accountKey returns the Redis key for an Account
func accountKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:account:%s", keyPrefix, playerID)
}

// usernameIndexKey returns the Redis key for the username -> player_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// matchRecordKey returns the Redis key for a MatchRecord
func matchRecordKey(id model.RecordID) string {
	return fmt.Sprintf("%s:match:%s", keyPrefix, id)
}

// recordsForUserIndexKey returns the Redis key for the ZSET of a player's
// record keys scored by play time
func recordsForUserIndexKey(userID model.PlayerID) string {
	return fmt.Sprintf("%s:idx:matches_for_user:%s", keyPrefix, userID)
}

// dictionaryKey returns the Redis key for the dictionary word set
func dictionaryKey() string {
	return fmt.Sprintf("%s:dictionary", keyPrefix)
}
