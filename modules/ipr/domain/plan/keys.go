package plan

// Message ids used by the document and the form.
const (
	KeyDocumentTitle = "IPR.Document.Title"
	KeyEmployeeName  = "IPR.Fields.EmployeeName"
	KeyManager       = "IPR.Fields.Manager"
	KeyPosition      = "IPR.Fields.Position"
	KeyCurrentLevel  = "IPR.Fields.CurrentLevel"
	KeyTargetLevel   = "IPR.Fields.TargetLevel"
	KeyMinimumPeriod = "IPR.Fields.MinimumPeriod"
	KeyGoalsGeneral  = "IPR.Goals.General"
	KeyGoalsTech     = "IPR.Goals.Tech"
	KeyGoalsSoft     = "IPR.Goals.Soft"
	KeyPeriodMonths  = "IPR.MinimumPeriod"
	KeyUnknownLevel  = "IPR.Errors.UnknownLevel"
)

// Translator resolves a message id to display text.
type Translator func(key string) string

// IdentityTranslator returns keys unchanged.
func IdentityTranslator(key string) string {
	return key
}
