package model

import (
	"time"

	"github.com/ecoloop/ecoloop/pkg/domain/types"
)

// ContactMessage is a message submitted through the public contact form
type ContactMessage struct {
	ID        types.ContactMessageID `json:"id" firestore:"id"`
	Name      string                 `json:"name" firestore:"name"`
	Email     string                 `json:"email" firestore:"email"`
	Subject   string                 `json:"subject" firestore:"subject"`
	Message   string                 `json:"message" firestore:"message"`
	CreatedAt time.Time              `json:"created_at" firestore:"created_at"`
}
