// Package models содержит доменную модель участника клуба в том виде,
// в котором она хранится в коллекции users и отдаётся клиентам.
package models

import (
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// LastSigninLayout формат отметки последнего входа (ISO-8601 с микросекундами и смещением).
const LastSigninLayout = "2006-01-02T15:04:05.000000-07:00"

// User представляет зарегистрированного участника.
//
// Поля документа, которых нет в структуре, попадают в Extra и отдаются
// клиенту без изменений.
type User struct {
	ID         bson.ObjectID `bson:"_id,omitempty"`
	Email      string        `bson:"email"`
	SignupDate time.Time     `bson:"signup_date,omitempty"` // UTC, задаётся один раз
	LastSignin string        `bson:"last_signin,omitempty"` // отсутствует до первого входа
	Extra      bson.M        `bson:",inline"`
}

// MarshalJSON отдаёт документ без _id. Отсутствующие signup_date и last_signin опускаются.
func (u User) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(u.Extra)+3)
	for k, v := range u.Extra {
		doc[k] = v
	}
	doc["email"] = u.Email
	if !u.SignupDate.IsZero() {
		doc["signup_date"] = u.SignupDate
	}
	if u.LastSignin != "" {
		doc["last_signin"] = u.LastSignin
	}
	return json.Marshal(doc)
}

// UnmarshalJSON разбирает документ, сохраняя незнакомые поля в Extra.
func (u *User) UnmarshalJSON(data []byte) error {
	const op = "models.User.UnmarshalJSON"

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var out User
	for key, raw := range doc {
		var err error
		switch key {
		case "email":
			err = json.Unmarshal(raw, &out.Email)
		case "signup_date":
			err = json.Unmarshal(raw, &out.SignupDate)
		case "last_signin":
			err = json.Unmarshal(raw, &out.LastSignin)
		default:
			var v any
			err = json.Unmarshal(raw, &v)
			if out.Extra == nil {
				out.Extra = bson.M{}
			}
			out.Extra[key] = v
		}
		if err != nil {
			return fmt.Errorf("%s: field %s: %w", op, key, err)
		}
	}
	*u = out
	return nil
}
