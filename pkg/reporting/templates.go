/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: templates.go
Description: HTML template for the verification run dashboard: summary cards, outcome and
duration charts, and one card per case with the selected dates and any failure details.
*/

package reporting

// dashboardTemplate is the main HTML template for the dashboard
const dashboardTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}} - Date Widget Verification</title>
    <script src="https://cdn.jsdelivr.net/npm/chart.js"></script>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }

        body {
            font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif;
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            min-height: 100vh;
            color: #333;
        }

        .container { max-width: 1400px; margin: 0 auto; padding: 20px; }

        .header, .stat-card, .chart-container, .case-list {
            background: rgba(255, 255, 255, 0.95);
            border-radius: 15px;
            padding: 25px;
            margin-bottom: 30px;
            box-shadow: 0 8px 32px rgba(0, 0, 0, 0.1);
        }

        .header { text-align: center; }
        .header h1 { color: #4a5568; font-size: 2.5rem; margin-bottom: 10px; }
        .header p { color: #718096; font-size: 1.1rem; }

        .stats-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(220px, 1fr));
            gap: 20px;
        }

        .stat-card h3 { color: #4a5568; font-size: 1.2rem; margin-bottom: 15px; }
        .stat-card .value { font-size: 2.5rem; font-weight: 700; color: #2d3748; }
        .stat-card .label { color: #718096; font-size: 0.9rem; text-transform: uppercase; }

        .charts-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(450px, 1fr));
            gap: 30px;
        }

        .chart-container h3 { color: #4a5568; margin-bottom: 20px; text-align: center; }
        .chart-wrapper { position: relative; height: 300px; }

        .case-item {
            background: #f7fafc;
            border-radius: 10px;
            padding: 20px;
            margin-bottom: 15px;
            border-left: 4px solid #38a169;
        }

        .case-item.failed { border-left-color: #e53e3e; }
        .case-header { display: flex; justify-content: space-between; margin-bottom: 10px; }
        .case-title { font-weight: 600; color: #2d3748; }

        .badge {
            padding: 4px 12px;
            border-radius: 20px;
            font-size: 0.8rem;
            font-weight: 600;
            text-transform: uppercase;
            background: #c6f6d5;
            color: #38a169;
        }

        .badge.failed { background: #fed7d7; color: #c53030; }
        .case-details { color: #718096; font-size: 0.9rem; }
        .case-details code { color: #2d3748; }
        .footer { text-align: center; padding: 30px; color: rgba(255, 255, 255, 0.8); font-size: 0.9rem; }

        @media (max-width: 768px) {
            .container { padding: 10px; }
            .charts-grid { grid-template-columns: 1fr; }
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>{{.Title}}</h1>
            <p>Generated on {{.GeneratedAt.Format "January 2, 2006 at 3:04 PM"}} | Run: {{.Run.ID}} | Target: {{.Target}} | Version: {{.Version}}</p>
        </div>

        <div class="stats-grid">
            <div class="stat-card">
                <h3>Cases</h3>
                <div class="value">{{.Stats.Total}}</div>
                <div class="label">Total Cases</div>
            </div>
            <div class="stat-card">
                <h3>Passed</h3>
                <div class="value">{{.Stats.Passed}}</div>
                <div class="label">{{printf "%.1f" .Stats.PassRate}}% Pass Rate</div>
            </div>
            <div class="stat-card">
                <h3>Failed</h3>
                <div class="value">{{.Stats.Failed}}</div>
                <div class="label">Failed Cases</div>
            </div>
            <div class="stat-card">
                <h3>Duration</h3>
                <div class="value">{{printf "%.1f" .Stats.TotalDuration.Seconds}}s</div>
                <div class="label">Slowest: {{.Stats.Slowest}}</div>
            </div>
        </div>

        <div class="charts-grid">
            <div class="chart-container">
                <h3>{{.Charts.OutcomeChart.Title}}</h3>
                <div class="chart-wrapper"><canvas id="outcomeChart"></canvas></div>
            </div>
            <div class="chart-container">
                <h3>{{.Charts.DurationChart.Title}}</h3>
                <div class="chart-wrapper"><canvas id="durationChart"></canvas></div>
            </div>
        </div>

        <div class="case-list">
            <h3>Cases</h3>
            {{range .Run.Results}}
            <div class="case-item{{if not .Passed}} failed{{end}}">
                <div class="case-header">
                    <div class="case-title">{{.Name}} ({{.Kind}})</div>
                    <div class="badge{{if not .Passed}} failed{{end}}">{{if .Passed}}passed{{else}}failed{{end}}</div>
                </div>
                <div class="case-details">
                    {{if .Label}}<p><strong>Selected:</strong> <code>{{.Label}}</code></p>{{end}}
                    {{if .Gregorian}}<p><strong>Gregorian:</strong> <code>{{.Gregorian}}</code></p>{{end}}
                    {{if .Rotation}}<p><strong>Month order:</strong> {{range $i, $m := .Rotation}}{{if $i}}, {{end}}{{$m}}{{end}}</p>{{end}}
                    {{if .Formats}}<p><strong>Formats:</strong> {{range $i, $f := .Formats}}{{if $i}} | {{end}}<code>{{$f}}</code>{{end}}</p>{{end}}
                    <p><strong>Duration:</strong> {{ms .Duration}} ms</p>
                    {{if .Error}}<p><strong>Error:</strong> {{.Error}}</p>{{end}}
                    {{range .Artifacts}}<p><strong>Artifact:</strong> <a href="{{.}}">{{.}}</a></p>{{end}}
                </div>
            </div>
            {{end}}
        </div>
    </div>

    <div class="footer">
        <p>calverify - Localized Date Widget Verification</p>
    </div>

    <script>
        Chart.defaults.font.family = "'Segoe UI', Tahoma, Geneva, Verdana, sans-serif";
        Chart.defaults.color = '#4a5568';

        new Chart(document.getElementById('outcomeChart'), {{chart .Charts.OutcomeChart}});
        new Chart(document.getElementById('durationChart'), {{chart .Charts.DurationChart}});
    </script>
</body>
</html>`
