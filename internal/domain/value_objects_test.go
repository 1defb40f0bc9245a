package domain_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/servicedesk/internal/domain"
	apperrors "github.com/spec-kit/servicedesk/pkg/util"
)

func TestParseTimeOfDay_AllValidClockTimes(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		for minute := 0; minute < 60; minute++ {
			value := fmt.Sprintf("%02d:%02d", hour, minute)
			parsed, err := domain.ParseTimeOfDay(value)
			require.NoError(t, err, value)
			assert.Equal(t, hour*60+minute, parsed.Minutes(), value)
			assert.Equal(t, value, parsed.String())
		}
	}
}

func TestParseTimeOfDay_TolerantSingleDigits(t *testing.T) {
	parsed, err := domain.ParseTimeOfDay("8:5")
	require.NoError(t, err)
	assert.Equal(t, 8*60+5, parsed.Minutes())
}

func TestParseTimeOfDay_Rejects(t *testing.T) {
	for _, value := range []string{"", "24:00", "12:60", "1200", "ab:cd", " 08:00", "08:00:00", "123:00"} {
		_, err := domain.ParseTimeOfDay(value)
		require.Error(t, err, value)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidInput), value)
	}
}

func TestTimeRange_BoundariesAreInclusive(t *testing.T) {
	r, err := domain.ParseTimeRange("08:00", "12:00")
	require.NoError(t, err)

	assert.True(t, r.Contains(r.Start()))
	assert.True(t, r.Contains(r.End()))

	inside, _ := domain.ParseTimeOfDay("10:30")
	before, _ := domain.ParseTimeOfDay("07:59")
	after, _ := domain.ParseTimeOfDay("12:01")
	assert.True(t, r.Contains(inside))
	assert.False(t, r.Contains(before))
	assert.False(t, r.Contains(after))
}

func TestTimeRange_RequiresStartBeforeEnd(t *testing.T) {
	_, err := domain.ParseTimeRange("12:00", "12:00")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = domain.ParseTimeRange("13:00", "12:00")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = domain.ParseTimeRange("25:00", "26:00")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestParseWeekday(t *testing.T) {
	for _, name := range []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"} {
		day, err := domain.ParseWeekday(name)
		require.NoError(t, err)
		assert.Equal(t, name, day.String())
	}
	for _, name := range []string{"monday", "MONDAY", "Mon", ""} {
		_, err := domain.ParseWeekday(name)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput, name)
	}
}

func TestWeekdayOf_UsesLocation(t *testing.T) {
	utc := time.Date(2024, time.June, 3, 1, 0, 0, 0, time.UTC) // a Monday
	assert.Equal(t, domain.Monday, domain.WeekdayOf(utc))

	west := time.FixedZone("UTC-3", -3*60*60)
	assert.Equal(t, domain.Sunday, domain.WeekdayOf(utc.In(west)))
}

func TestParseMoney(t *testing.T) {
	cents, err := domain.ParseMoney("39,90", true)
	require.NoError(t, err)
	assert.Equal(t, int64(3990), cents.Value().IntPart())
	assert.True(t, cents.InCents())

	units, err := domain.ParseMoney("39.99", false)
	require.NoError(t, err)
	assert.Equal(t, "39.99", units.Value().String())
	assert.Equal(t, int64(3999), units.Cents())

	rounded, err := domain.ParseMoney("0,005", true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rounded.Cents())

	_, err = domain.ParseMoney("abc", false)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = domain.ParseMoney("", true)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestMoney_AddAndTotal(t *testing.T) {
	a, _ := domain.ParseMoney("10,50", true)
	b, _ := domain.ParseMoney("2.25", false)

	sum := a.Add(b)
	assert.Equal(t, int64(1275), sum.Cents())
	assert.True(t, sum.InCents())

	total := domain.TotalOf([]domain.Money{a, a, b})
	assert.Equal(t, int64(2325), total.Cents())
	assert.True(t, domain.TotalOf(nil).Equal(domain.MoneyFromCents(0)))
}

func TestMoney_Format(t *testing.T) {
	price, _ := domain.ParseMoney("1234,5", true)
	assert.Equal(t, "R$ 1234,50", price.Format())

	plain, _ := domain.ParseMoney("7", false)
	assert.Equal(t, "R$ 7,00", plain.Format())
}

func TestNewEmail(t *testing.T) {
	email, err := domain.NewEmail(" jane@example.com ")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", email.String())

	for _, value := range []string{"", "jane", "jane@example", "@example.com", "jane doe@example.com"} {
		_, err := domain.NewEmail(value)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput, value)
	}
}

func TestNewPassword(t *testing.T) {
	password, err := domain.NewPassword("secret1", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", password.Hash())
	assert.True(t, password.Matches("secret1"))
	assert.False(t, password.Matches("secret2"))
	assert.True(t, domain.PasswordFromHash(password.Hash()).Matches("secret1"))

	_, err = domain.NewPassword("12345", bcrypt.MinCost)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	assert.False(t, domain.PasswordFromHash("").Matches(""))
}

func TestEntity_SameIdentity(t *testing.T) {
	a := domain.Entity{ID: "1"}
	b := domain.Entity{ID: "1"}
	c := domain.Entity{ID: "2"}
	assert.True(t, a.SameIdentity(b))
	assert.False(t, a.SameIdentity(c))
	assert.False(t, domain.Entity{}.SameIdentity(domain.Entity{}))
	assert.NotEqual(t, domain.NewID(), domain.NewID())
}
