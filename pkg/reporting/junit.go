/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: junit.go
Description: JUnit XML output so CI systems can show verification cases as tests.
*/

package reporting

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
)

type junitSuite struct {
	XMLName  xml.Name    `xml:"testsuite"`
	Name     string      `xml:"name,attr"`
	Tests    int         `xml:"tests,attr"`
	Failures int         `xml:"failures,attr"`
	Time     string      `xml:"time,attr"`
	ID       string      `xml:"id,attr,omitempty"`
	Cases    []junitCase `xml:"testcase"`
}

type junitCase struct {
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Time      string        `xml:"time,attr"`
	Failure   *junitFailure `xml:"failure,omitempty"`
	SystemOut string        `xml:"system-out,omitempty"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
	Body    string `xml:",chardata"`
}

func buildJUnit(data *DashboardData) junitSuite {
	suite := junitSuite{
		Name:     data.Title,
		Tests:    data.Stats.Total,
		Failures: data.Stats.Failed,
		Time:     fmt.Sprintf("%.3f", data.Stats.TotalDuration.Seconds()),
	}
	if data.Run == nil {
		return suite
	}
	suite.ID = data.Run.ID
	for _, r := range data.Run.Results {
		c := junitCase{
			Name:      r.Name,
			Classname: "calverify." + string(r.Kind),
			Time:      fmt.Sprintf("%.3f", r.Duration.Seconds()),
		}
		if r.Label != "" || r.Gregorian != "" {
			c.SystemOut = fmt.Sprintf("label=%s gregorian=%s", r.Label, r.Gregorian)
		}
		if !r.Passed {
			c.Failure = &junitFailure{Message: r.Error, Body: r.Error}
		}
		suite.Cases = append(suite.Cases, c)
	}
	return suite
}

func (dg *DashboardGenerator) generateJUnit(data *DashboardData) error {
	out, err := xml.MarshalIndent(buildJUnit(data), "", "  ")
	if err != nil {
		return err
	}
	out = append([]byte(xml.Header), out...)
	return os.WriteFile(filepath.Join(dg.outputDir, "junit.xml"), out, 0644)
}
