package repositories

import (
	"github.com/nexusnu/webclient/internal/pkg/apiclient"
	"github.com/nexusnu/webclient/internal/pkg/jobsearch"
)

// Repositories holds all the repository instances. Each one fronts a group
// of NexusNU REST endpoints; the backend is the only store.
type Repositories struct {
	AuthRepository          *AuthRepository
	UserRepository          *UserRepository
	SkillRepository         *SkillRepository
	CertificationRepository *CertificationRepository
	PostRepository          *PostRepository
	EventRepository         *EventRepository
	ChatRepository          *ChatRepository
	JobRepository           *JobRepository
}

// NewRepositories initializes all repositories
func NewRepositories(api *apiclient.Client, jobs *jobsearch.Client) *Repositories {
	return &Repositories{
		AuthRepository:          NewAuthRepository(api),
		UserRepository:          NewUserRepository(api),
		SkillRepository:         NewSkillRepository(api),
		CertificationRepository: NewCertificationRepository(api),
		PostRepository:          NewPostRepository(api),
		EventRepository:         NewEventRepository(api),
		ChatRepository:          NewChatRepository(api),
		JobRepository:           NewJobRepository(api, jobs),
	}
}
