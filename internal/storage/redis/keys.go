package redis

import (
	"fmt"
	"strings"

	"github.com/itobot/scout/internal/model"
)

// Key prefix for all scouting data
const keyPrefix = "scout"

// entryKey returns the Redis key for a ScoutEntry document
func entryKey(id model.EntryID) string {
	return fmt.Sprintf("%s:entry:%s", keyPrefix, id)
}

// entriesIndexKey returns the Redis key for the ZSET of all entry ids scored by creation time
func entriesIndexKey() string {
	return fmt.Sprintf("%s:idx:entries", keyPrefix)
}

// scoutIndexKey returns the Redis key for the SET of entry ids recorded by one scout.
// Plain sets carry no order, so filtered listings cannot be sorted server-side.
func scoutIndexKey(scoutName string) string {
	return fmt.Sprintf("%s:idx:scout:%s", keyPrefix, scoutName)
}

func userKey(uid model.UserID) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, uid)
}

func usersIndexKey() string {
	return fmt.Sprintf("%s:idx:users", keyPrefix)
}

func credentialsKey(uid model.UserID) string {
	return fmt.Sprintf("%s:credentials:%s", keyPrefix, uid)
}

// emailIndexKey returns the Redis key for the email -> uid index
func emailIndexKey(email string) string {
	return fmt.Sprintf("%s:idx:email:%s", keyPrefix, strings.ToLower(email))
}
