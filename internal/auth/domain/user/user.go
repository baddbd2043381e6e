package user

import "time"

// User is an identity record. It is never deleted; disable access by
// setting IsActive to false.
type User struct {
	userID     int64
	telegramID int64
	name       string
	language   string
	timezone   string
	isActive   bool
	createdAt  time.Time
	updatedAt  time.Time
}

func (u *User) UserID() int64        { return u.userID }
func (u *User) TelegramID() int64    { return u.telegramID }
func (u *User) Name() string         { return u.name }
func (u *User) Language() string     { return u.language }
func (u *User) Timezone() string     { return u.timezone }
func (u *User) IsActive() bool       { return u.isActive }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// SetName updates the display name.
func (u *User) SetName(name string) {
	u.name = name
	u.updatedAt = time.Now()
}

// SetLanguage updates the preferred language, already normalised by the caller.
func (u *User) SetLanguage(language string) {
	u.language = language
	u.updatedAt = time.Now()
}

// SetTimezone updates the IANA timezone string, already validated by the caller.
func (u *User) SetTimezone(timezone string) {
	u.timezone = timezone
	u.updatedAt = time.Now()
}

func (u *User) Deactivate() {
	u.isActive = false
	u.updatedAt = time.Now()
}

// NewUser creates a user record for out-of-band (telegram) registration.
func NewUser(telegramID int64, name, language, timezone string) *User {
	now := time.Now()
	return &User{
		telegramID: telegramID,
		name:       name,
		language:   language,
		timezone:   timezone,
		isActive:   true,
		createdAt:  now,
		updatedAt:  now,
	}
}

// UnmarshalUserFromDatabase reconstructs a User from stored fields.
func UnmarshalUserFromDatabase(
	userID, telegramID int64,
	name, language, timezone string,
	isActive bool,
	createdAt, updatedAt time.Time,
) *User {
	return &User{
		userID:     userID,
		telegramID: telegramID,
		name:       name,
		language:   language,
		timezone:   timezone,
		isActive:   isActive,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}
