package email

// Email templates using HTML

const criticalZoneAlertTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
        }
        .header {
            background: linear-gradient(135deg, #15803d, #166534);
            color: white;
            padding: 30px;
            text-align: center;
            border-radius: 10px 10px 0 0;
        }
        .header h1 {
            margin: 0;
            font-size: 24px;
        }
        .content {
            background: #ffffff;
            padding: 30px;
            border: 1px solid #e5e7eb;
            border-top: none;
        }
        .footer {
            background: #f9fafb;
            padding: 20px;
            text-align: center;
            font-size: 12px;
            color: #6b7280;
            border: 1px solid #e5e7eb;
            border-top: none;
            border-radius: 0 0 10px 10px;
        }
        .button {
            display: inline-block;
            background: #15803d;
            color: white;
            padding: 12px 30px;
            text-decoration: none;
            border-radius: 6px;
            margin: 20px 0;
        }
        .alert {
            padding: 14px 18px;
            border-radius: 8px;
            margin: 10px 0;
        }
        .alert-critical {
            background: #fef2f2;
            border-left: 4px solid #dc2626;
        }
        .alert-warning {
            background: #fffbeb;
            border-left: 4px solid #d97706;
        }
        .alert-zone {
            font-weight: 600;
        }
    </style>
</head>
<body>
    <div class="header">
        <h1>CanaSwarm Intelligence</h1>
    </div>
    <div class="content">
        <h2>Alerta de rentabilidade: talhão {{.FieldID}}</h2>
        <p>
            A última análise identificou <strong>{{.TotalCount}} zona(s)</strong>
            abaixo do limiar de rentabilidade{{if .CriticalCount}}, sendo
            <strong>{{.CriticalCount}} crítica(s)</strong>{{end}}.
        </p>
        {{range .Alerts}}
        <div class="alert {{if eq .Severity "critical"}}alert-critical{{else}}alert-warning{{end}}">
            <span class="alert-zone">Zona {{.ZoneID}}</span><br>
            {{.Message}}
        </div>
        {{end}}
        <p style="text-align: center;">
            <a href="{{.DashboardURL}}" class="button">Ver talhão no painel</a>
        </p>
    </div>
    <div class="footer">
        <p>CanaSwarm Intelligence &middot; Notificação automática de análise de talhões</p>
    </div>
</body>
</html>
`
