package portal

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Fácil"
	DifficultyMedium Difficulty = "Médio"
	DifficultyHard   Difficulty = "Difícil"
)

type SimulationType string

const (
	SimulationTraining      SimulationType = "Treino (pós-aula)"
	SimulationReinforcement SimulationType = "Reforço"
)

// SourceMix tells the question generator where items should come from.
type SourceMix string

const (
	SourceMixAIOnly   SourceMix = "Apenas IA"
	SourceMixEntrance SourceMix = "Vestibulares/IFs/ENEM"
	SourceMixMixed    SourceMix = "Misto (IA + Vestibulares)"
)

// Source is the provenance tag of a single question.
type Source string

const (
	SourceAI       Source = "ia"
	SourceManual   Source = "manual"
	SourceEntrance Source = "vestibular"
)

type Class struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Year string `json:"year"`
}

type Student struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"` // login handle, unique ignoring case
	WhatsApp    string `json:"whatsapp"`
	PIN         string `json:"pin"`
	PhotoURL    string `json:"photoUrl,omitempty"`
	ParentName  string `json:"parentName"`
	ParentPhone string `json:"parentPhone"`
	ClassID     string `json:"classId"` // may dangle after a class is deleted
}

type Professor struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Nickname  string `json:"nickname,omitempty"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	PIN       string `json:"pin"`
	PhotoURL  string `json:"photoUrl,omitempty"`
	IsAdmin   bool   `json:"isAdmin"`
	HasAccess bool   `json:"hasAccess"`
}

// DisplayName prefers the nickname.
func (p Professor) DisplayName() string {
	if p.Nickname != "" {
		return p.Nickname
	}
	return p.Name
}

type Question struct {
	ID            string     `json:"id"`
	Statement     string     `json:"statement"`
	Options       []string   `json:"options"`
	CorrectAnswer int        `json:"correctAnswer"` // zero-based index into Options
	Topic         string     `json:"topic"`
	Difficulty    Difficulty `json:"difficulty"`
	Source        Source     `json:"source"`
	OriginInfo    string     `json:"originInfo,omitempty"`
}

// Simulation is a published quiz. Questions are an embedded copy and never
// change after publishing.
type Simulation struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	Type             SimulationType `json:"type"`
	Questions        []Question     `json:"questions"`
	CreatedAt        int64          `json:"createdAt"` // unix millis
	TeacherID        string         `json:"teacherId"`
	TeacherName      string         `json:"teacherName"`
	Year             string         `json:"year,omitempty"`
	ClassID          string         `json:"classId,omitempty"`
	TargetStudentIDs []string       `json:"targetStudentIds"`
}

// StudentResponse is one finished attempt. Answers[i] pairs with
// Questions[i] of the simulation; a nil slot was never answered.
type StudentResponse struct {
	ID           string `json:"id"`
	StudentID    string `json:"studentId"`
	StudentName  string `json:"studentName"`
	SimulationID string `json:"simulationId"`
	Answers      []*int `json:"answers"`
	Score        int    `json:"score"`
	Feedback     string `json:"feedback"`
	Timestamp    int64  `json:"timestamp"` // unix millis
}

// AdminProfile is the display data of the super admin, who has no
// Professor record.
type AdminProfile struct {
	Name     string `json:"name"`
	Nickname string `json:"nickname"`
	PhotoURL string `json:"photoUrl"`
}

const NoClassLabel = "Sem turma"

func DefaultClasses() []Class {
	return []Class{{ID: "1", Name: "7º Ano A", Year: "2025"}}
}

func DefaultAdminProfile() AdminProfile {
	return AdminProfile{Name: "Eduardo G.", Nickname: "Diretor Eduardo"}
}

// Int returns a pointer to v, handy for building answer slots.
func Int(v int) *int { return &v }
