package controllers_test

import (
	"bytes"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/iota-uz/ipr/modules/ipr"
	"github.com/iota-uz/ipr/modules/ipr/infrastructure/matrix"
	"github.com/iota-uz/ipr/modules/ipr/presentation/assets"
	"github.com/iota-uz/ipr/modules/ipr/presentation/controllers"
	"github.com/iota-uz/ipr/pkg/docx"
	"github.com/iota-uz/ipr/pkg/itf"
)

func setupIPRSuite(t *testing.T) *itf.Suite {
	t.Helper()
	suite := itf.NewSuiteBuilder(t).
		WithModules(ipr.NewModule(nil)).
		Build()
	suite.Register(controllers.NewIPRController(suite.Env().App))
	return suite
}

func validForm() url.Values {
	return url.Values{
		"name":         {"Jane Doe"},
		"manager":      {"John Smith"},
		"position":     {"engineerProgrammer"},
		"currentLevel": {"juniorMinus"},
		"goalsGeneral": {"Read one book in English"},
		"goalsTech":    {"Ship the billing export"},
		"goalsSoft":    {""},
	}
}

func TestIPRController_Index(t *testing.T) {
	suite := setupIPRSuite(t)

	html := suite.GET("/ipr").Assert(t).ExpectOK().ExpectHTML()
	html.ExpectText("//h1", "Individual development plan")
	html.ExpectElement("//form[@id='ipr-form'][@action='/ipr/export']")
	html.ExpectElement("//section[@id='ipr-derived']")
	html.ExpectElement("//div[@id='ipr-preview']")
	html.ExpectElement("//select[@name='currentLevel'][@hx-post='/ipr/level']")
	html.ExpectElement("//option[@value='seniorMinus'][@disabled]")
	html.ExpectNoElement("//option[@value='intern'][@disabled]")
	html.ExpectElement("//a[@href='/ipr?lang=ru']")
	html.ExpectNoElement("//section[@id='ipr-derived']//div[@data-section]")

	require.Len(t, html.Elements("//select[@name='currentLevel']/option"), 9)
	require.Len(t, html.Elements("//textarea"), 3)
	require.Equal(t, assets.URL(assets.StylesheetPath), html.Attr("//link[@rel='stylesheet']", "href"))
}

func TestIPRController_IndexPreselectsLevel(t *testing.T) {
	suite := setupIPRSuite(t)

	html := suite.GET("/ipr").
		WithQuery(map[string]string{"level": "junior-"}).
		Assert(t).
		ExpectOK().
		ExpectHTML()
	html.ExpectElement("//option[@value='juniorMinus'][@selected]")
	html.ExpectText("//dd[@data-field='targetLevel']", "Junior")
}

func TestIPRController_IndexRussian(t *testing.T) {
	suite := setupIPRSuite(t)

	resp := suite.GET("/ipr").
		WithQuery(map[string]string{"lang": "ru"}).
		Assert(t).
		ExpectOK()
	resp.ExpectHTML().
		ExpectText("//h1", "Индивидуальный план развития").
		ExpectElement("//html[@lang='ru']").
		ExpectElement("//a[@hreflang='ru'][@aria-current='true']")

	var found bool
	for _, c := range resp.Cookies() {
		if c.Name == "ipr_lang" {
			found = true
			require.Equal(t, "ru", c.Value)
		}
	}
	require.True(t, found, "language cookie not set")
}

func TestIPRController_Level(t *testing.T) {
	suite := setupIPRSuite(t)

	html := suite.POST("/ipr/level").
		Form(url.Values{"currentLevel": {"juniorMinus"}}).
		HTMX().
		Assert(t).
		ExpectOK().
		ExpectHTML()
	html.ExpectText("//dd[@data-field='targetLevel']", "Junior")
	html.ExpectText("//dd[@data-field='minimumPeriod']", "3 months")
	html.ExpectText("//div[@data-section='general']//li[1]", "B1: follows technical discussions and video talks in English.")
	html.ExpectElement("//div[@data-section='tech']")
	html.ExpectElement("//div[@data-section='soft']")
	html.ExpectNoElement("//form")
}

func TestIPRController_LevelLocalizesPeriod(t *testing.T) {
	suite := setupIPRSuite(t)

	suite.POST("/ipr/level?lang=ru").
		Form(url.Values{"currentLevel": {"juniorMinus"}}).
		HTMX().
		Assert(t).
		ExpectOK().
		ExpectHTML().
		ExpectText("//dd[@data-field='minimumPeriod']", "3 месяца")
}

func TestIPRController_LevelCleared(t *testing.T) {
	suite := setupIPRSuite(t)

	cases := itf.Cases(
		itf.POST("/ipr/level").
			Named("Empty_Level").
			WithForm(url.Values{"currentLevel": {""}}).
			HTMX().
			ExpectOK(),
		itf.POST("/ipr/level").
			Named("Unknown_Level").
			WithForm(url.Values{"currentLevel": {"wizard"}}).
			HTMX().
			ExpectOK(),
	)
	suite.RunCases(cases)

	html := suite.POST("/ipr/level").
		Form(url.Values{"currentLevel": {"wizard"}}).
		HTMX().
		Assert(t).
		ExpectOK().
		ExpectHTML()
	html.ExpectText("//dd[@data-field='targetLevel']", "")
	html.ExpectText("//dd[@data-field='minimumPeriod']", "")
	html.ExpectNoElement("//div[@data-section]")
}

func TestIPRController_Preview(t *testing.T) {
	suite := setupIPRSuite(t)

	html := suite.POST("/ipr/preview").
		Form(validForm()).
		HTMX().
		Assert(t).
		ExpectOK().
		ExpectHTML()
	html.ExpectElement("//div[@data-ipr-modal]")
	html.ExpectText("//article//h1", "Individual Development Plan")
	html.ExpectText("//span[@data-field='fileName']", "IPR_Jane Doe_juniorEqual.docx")
	html.ExpectElement("//button[@form='ipr-form'][@type='submit']")
	html.ExpectElement("//article//p[contains(., 'Ship the billing export')]")
	html.ExpectElement("//article//p[contains(., 'Jane Doe')]")
}

func TestIPRController_PreviewValidationFailure(t *testing.T) {
	suite := setupIPRSuite(t)

	form := validForm()
	form.Set("name", "  ")
	resp := suite.POST("/ipr/preview").
		Form(form).
		HTMX().
		Assert(t).
		ExpectOK().
		ExpectHeader("HX-Retarget", "#ipr-form").
		ExpectHeader("HX-Reswap", "outerHTML")

	html := resp.ExpectHTML()
	html.ExpectText("//span[@data-error='name']", "Employee name is required")
	html.ExpectNoElement("//span[@data-error='manager']")
	require.Equal(t, "John Smith", html.Attr("//input[@name='manager']", "value"))
	html.ExpectText("//textarea[@name='goalsTech']", "Ship the billing export")
}

func TestIPRController_Export(t *testing.T) {
	suite := setupIPRSuite(t)

	resp := suite.POST("/ipr/export").
		Form(validForm()).
		Assert(t).
		ExpectOK().
		ExpectHeader("Content-Type", docx.MimeType)

	disposition, params, err := mime.ParseMediaType(resp.Header("Content-Disposition"))
	require.NoError(t, err)
	require.Equal(t, "attachment", disposition)
	require.Equal(t, "IPR_Jane Doe_juniorEqual.docx", params["filename"])

	doc, err := docx.Parse(resp.Bytes())
	require.NoError(t, err)
	text := doc.Text()
	require.Contains(t, text, "Jane Doe")
	require.Contains(t, text, "John Smith")
	require.Contains(t, text, "Writes clear descriptions of merge requests in English.")
	require.Contains(t, text, "Read one book in English")
	require.Equal(t, "Individual Development Plan", doc.Properties.Title)
}

func TestIPRController_ExportCyrillicFileName(t *testing.T) {
	suite := setupIPRSuite(t)

	form := validForm()
	form.Set("name", "Иван Петров")
	resp := suite.POST("/ipr/export").Form(form).Assert(t).ExpectOK()

	_, params, err := mime.ParseMediaType(resp.Header("Content-Disposition"))
	require.NoError(t, err)
	require.Equal(t, "IPR_Иван Петров_juniorEqual.docx", params["filename"])
}

func TestIPRController_ExportValidationFailure(t *testing.T) {
	suite := setupIPRSuite(t)

	form := validForm()
	form.Set("currentLevel", "wizard")
	form.Set("manager", "")

	t.Run("Full_Page", func(t *testing.T) {
		html := suite.POST("/ipr/export").
			Form(form).
			Assert(t).
			ExpectStatus(http.StatusUnprocessableEntity).
			ExpectHTML()
		html.ExpectElement("//h1")
		html.ExpectText("//span[@data-error='manager']", "Manager is required")
		html.ExpectText("//span[@data-error='currentLevel']", "Current level: unknown level")
	})

	t.Run("Fragment", func(t *testing.T) {
		html := suite.POST("/ipr/export").
			Form(form).
			HTMX().
			Assert(t).
			ExpectStatus(http.StatusUnprocessableEntity).
			ExpectHTML()
		html.ExpectNoElement("//h1")
		html.ExpectElement("//form[@id='ipr-form']")
		html.ExpectElement("//span[@data-error='manager']")
	})
}

func TestIPRController_ExportRejectsTerminalLevel(t *testing.T) {
	suite := setupIPRSuite(t)

	form := validForm()
	form.Set("currentLevel", "seniorMinus")
	resp := suite.POST("/ipr/export").Form(form).Assert(t).ExpectOK()

	_, params, err := mime.ParseMediaType(resp.Header("Content-Disposition"))
	require.NoError(t, err)
	require.Equal(t, "IPR_Jane Doe_unknown.docx", params["filename"])
}

func TestIPRController_Matrix(t *testing.T) {
	suite := setupIPRSuite(t)

	resp := suite.GET("/ipr/matrix.xlsx").
		Assert(t).
		ExpectOK().
		ExpectHeader("Content-Type", matrix.XLSXContentType)
	require.True(t, strings.HasPrefix(resp.Header("Content-Disposition"), "attachment"))

	f, err := excelize.OpenReader(bytes.NewReader(resp.Bytes()))
	require.NoError(t, err)
	defer func() { require.NoError(t, f.Close()) }()

	rows, err := f.GetRows(matrix.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 9)
	require.Equal(t, "Level", rows[0][0])
	require.Equal(t, "Intern", rows[1][0])
}

func TestStaticFilesController(t *testing.T) {
	suite := setupIPRSuite(t)
	suite.Register(controllers.NewStaticFilesController(suite.Env().App.HashFsAssets(), true))

	resp := suite.GET(assets.URL(assets.StylesheetPath)).
		Assert(t).
		ExpectOK().
		ExpectBodyContains(".ipr-document")
	require.Contains(t, resp.Header("Cache-Control"), "max-age=31536000")
	require.Contains(t, resp.Header("Content-Type"), "text/css")

	suite.GET("/assets/js/missing.js").Assert(t).ExpectNotFound()
}
