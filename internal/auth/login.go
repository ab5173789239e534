package auth

// View is the step of the login screen.
type View string

const (
	ViewSelection      View = "selection"
	ViewProfessorLogin View = "professor_login"
	ViewStudentEmail   View = "student_email"
	ViewStudentPIN     View = "student_pin"
)

// Login walks one client through the login screens. Failed submissions leave
// the view unchanged and set Error.
type Login struct {
	View  View
	Email string
	PIN   string
	Error string
}

func NewLogin() *Login { return &Login{View: ViewSelection} }

func (l *Login) ChooseProfessor() { l.View, l.Error = ViewProfessorLogin, "" }

func (l *Login) ChooseStudent() { l.View, l.Error = ViewStudentEmail, "" }

func (l *Login) SubmitProfessor(g *Gate) (Actor, bool) {
	if l.View != ViewProfessorLogin {
		return Actor{}, false
	}
	a, err := g.LoginProfessor(l.PIN)
	if err != nil {
		l.fail(err)
		return Actor{}, false
	}
	l.PIN, l.Error = "", ""
	return a, true
}

func (l *Login) SubmitEmail(g *Gate) bool {
	if l.View != ViewStudentEmail {
		return false
	}
	if err := g.CheckStudentEmail(l.Email); err != nil {
		l.fail(err)
		return false
	}
	l.View, l.Error = ViewStudentPIN, ""
	return true
}

func (l *Login) SubmitStudent(g *Gate) (Actor, bool) {
	if l.View != ViewStudentPIN {
		return Actor{}, false
	}
	a, err := g.LoginStudent(l.Email, l.PIN)
	if err != nil {
		l.fail(err)
		return Actor{}, false
	}
	l.Error = ""
	return a, true
}

// Logout returns to the selection and forgets typed credentials.
func (l *Login) Logout() {
	*l = Login{View: ViewSelection}
}

func (l *Login) fail(err error) {
	if ce, ok := err.(*CredentialError); ok {
		l.Error = ce.Message
		return
	}
	l.Error = err.Error()
}
