package grok

// builtinTemplates is the default template library. Order matters: a
// template may only reference templates that appear before it.
var builtinTemplates = []Template{
	// Base
	{"USERNAME", `[a-zA-Z0-9._-]+`},
	{"USER", `%{USERNAME}`},
	{"INT", `(?:[+-]?(?:[0-9]+))`},
	{"BASE10NUM", `(?<![0-9.+-])(?>[+-]?(?:(?:[0-9]+(?:\.[0-9]+)?)|(?:\.[0-9]+)))`},
	{"NUMBER", `(?:%{BASE10NUM})`},
	{"BASE16NUM", `(?<![0-9A-Fa-f])(?:[+-]?(?:0x)?(?:[0-9A-Fa-f]+))`},
	{"BASE16FLOAT", `\b(?<![0-9A-Fa-f.])(?:[+-]?(?:0x)?(?:(?:[0-9A-Fa-f]+(?:\.[0-9A-Fa-f]*)?)|(?:\.[0-9A-Fa-f]+)))\b`},
	{"POSINT", `\b(?:[1-9][0-9]*)\b`},
	{"NONNEGINT", `\b(?:[0-9]+)\b`},
	{"WORD", `\b\w+\b`},
	{"NOTSPACE", `\S+`},
	{"SPACE", `\s*`},
	{"DATA", `.*?`},
	{"GREEDYDATA", `.*`},
	{"QUOTEDSTRING", `(?>(?<!\\)(?>"(?>\\.|[^\\"]+)+"|""|(?>'(?>\\.|[^\\']+)+')|''|(?>` + "`" + `(?>\\.|[^\\` + "`" + `]+)+` + "`" + `)|` + "``" + `))`},
	{"QS", `%{QUOTEDSTRING}`},
	{"UUID", `[A-Fa-f0-9]{8}-(?:[A-Fa-f0-9]{4}-){3}[A-Fa-f0-9]{12}`},
	{"URN", `urn:[0-9A-Za-z][0-9A-Za-z-]{0,31}:(?:%[0-9a-fA-F]{2}|[0-9A-Za-z()+,.:=@;$_!*'/?#-])+`},

	// Networking
	{"CISCOMAC", `(?:(?:[A-Fa-f0-9]{4}\.){2}[A-Fa-f0-9]{4})`},
	{"WINDOWSMAC", `(?:(?:[A-Fa-f0-9]{2}-){5}[A-Fa-f0-9]{2})`},
	{"COMMONMAC", `(?:(?:[A-Fa-f0-9]{2}:){5}[A-Fa-f0-9]{2})`},
	{"MAC", `(?:%{CISCOMAC}|%{WINDOWSMAC}|%{COMMONMAC})`},
	{"IPV6", `((([0-9A-Fa-f]{1,4}:){7}([0-9A-Fa-f]{1,4}|:))|(([0-9A-Fa-f]{1,4}:){6}(:[0-9A-Fa-f]{1,4}|((25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)(\.(25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)){3})|:))|(([0-9A-Fa-f]{1,4}:){5}(((:[0-9A-Fa-f]{1,4}){1,2})|:((25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)(\.(25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)){3})|:))|(([0-9A-Fa-f]{1,4}:){4}(((:[0-9A-Fa-f]{1,4}){1,3})|((:[0-9A-Fa-f]{1,4})?:((25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)(\.(25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)){3}))|:))|(([0-9A-Fa-f]{1,4}:){3}(((:[0-9A-Fa-f]{1,4}){1,4})|((:[0-9A-Fa-f]{1,4}){0,2}:((25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)(\.(25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)){3}))|:))|(([0-9A-Fa-f]{1,4}:){2}(((:[0-9A-Fa-f]{1,4}){1,5})|((:[0-9A-Fa-f]{1,4}){0,3}:((25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)(\.(25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)){3}))|:))|(([0-9A-Fa-f]{1,4}:){1}(((:[0-9A-Fa-f]{1,4}){1,6})|((:[0-9A-Fa-f]{1,4}){0,4}:((25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)(\.(25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)){3}))|:))|(:(((:[0-9A-Fa-f]{1,4}){1,7})|((:[0-9A-Fa-f]{1,4}){0,5}:((25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)(\.(25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)){3}))|:)))(%.+)?`},
	{"IPV4", `(?<![0-9])(?:(?:[0-1]?[0-9]{1,2}|2[0-4][0-9]|25[0-5])[.](?:[0-1]?[0-9]{1,2}|2[0-4][0-9]|25[0-5])[.](?:[0-1]?[0-9]{1,2}|2[0-4][0-9]|25[0-5])[.](?:[0-1]?[0-9]{1,2}|2[0-4][0-9]|25[0-5]))(?![0-9])`},
	{"IP", `(?:%{IPV6}|%{IPV4})`},
	{"HOSTNAME", `\b(?:[0-9A-Za-z][0-9A-Za-z-]{0,62})(?:\.(?:[0-9A-Za-z][0-9A-Za-z-]{0,62}))*(\.?|\b)`},
	{"HOST", `%{HOSTNAME}`},
	{"IPORHOST", `(?:%{IP}|%{HOSTNAME})`},
	{"HOSTPORT", `%{IPORHOST}:%{POSINT}`},
	{"EMAILLOCALPART", `[a-zA-Z0-9!#$%&'*+\-/=?^_` + "`" + `{|}~]{1,64}(?:\.[a-zA-Z0-9!#$%&'*+\-/=?^_` + "`" + `{|}~]{1,62}){0,63}`},
	{"EMAILADDRESS", `%{EMAILLOCALPART}@%{HOSTNAME}`},

	// Paths
	{"UNIXPATH", `(?:/[\w_%!$@:.,+~-]*)+`},
	{"LINUXTTY", `(?:/dev/pts/%{POSINT})`},
	{"BSDTTY", `(?:/dev/tty[pq][a-z0-9])`},
	{"TTY", `(?:%{BSDTTY}|%{LINUXTTY})`},
	{"WINPATH", `(?>[A-Za-z]+:|\\)(?:\\[^\\?*]*)+`},
	{"PATH", `(?:%{UNIXPATH}|%{WINPATH})`},

	// URIs
	{"URIPROTO", `[A-Za-z]+(\+[A-Za-z+]+)?`},
	{"URIHOST", `%{IPORHOST}(?::%{POSINT})?`},
	{"URIPATH", `(?:/[A-Za-z0-9$.+!*'(){},~:;=@#%&_\-]*)+`},
	{"URIPARAM", `\?[A-Za-z0-9$.+!*'|(){},~@#%&/=:;_?\-\[\]<>]*`},
	{"URIPATHPARAM", `%{URIPATH}(?:%{URIPARAM})?`},
	{"URI", `%{URIPROTO}://(?:%{USER}(?::[^@]*)?@)?(?:%{URIHOST})?(?:%{URIPATHPARAM})?`},

	// Dates and times
	{"MONTH", `\b(?:Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:tember)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)\b`},
	{"MONTHNUM", `(?:0?[1-9]|1[0-2])`},
	{"MONTHNUM2", `(?:0[1-9]|1[0-2])`},
	{"MONTHDAY", `(?:(?:0[1-9])|(?:[12][0-9])|(?:3[01])|[1-9])`},
	{"DAY", `(?:Mon(?:day)?|Tue(?:sday)?|Wed(?:nesday)?|Thu(?:rsday)?|Fri(?:day)?|Sat(?:urday)?|Sun(?:day)?)`},
	{"YEAR", `(?>\d\d){1,2}`},
	{"HOUR", `(?:2[0123]|[01]?[0-9])`},
	{"MINUTE", `(?:[0-5][0-9])`},
	{"SECOND", `(?:(?:[0-5]?[0-9]|60)(?:[:.,][0-9]+)?)`},
	{"TIME", `(?!<[0-9])%{HOUR}:%{MINUTE}(?::%{SECOND})(?![0-9])`},
	{"DATE_US", `%{MONTHNUM}[/-]%{MONTHDAY}[/-]%{YEAR}`},
	{"DATE_EU", `%{MONTHDAY}[./-]%{MONTHNUM}[./-]%{YEAR}`},
	{"ISO8601_TIMEZONE", `(?:Z|[+-]%{HOUR}(?::?%{MINUTE}))`},
	{"ISO8601_SECOND", `(?:%{SECOND}|60)`},
	{"TIMESTAMP_ISO8601", `%{YEAR}-%{MONTHNUM}-%{MONTHDAY}[T ]%{HOUR}:?%{MINUTE}(?::?%{SECOND})?%{ISO8601_TIMEZONE}?`},
	{"DATE", `%{DATE_US}|%{DATE_EU}`},
	{"DATESTAMP", `%{DATE}[- ]%{TIME}`},
	{"TZ", `(?:[APMCE][SD]T|UTC|GMT)`},
	{"DATESTAMP_RFC822", `%{DAY} %{MONTH} %{MONTHDAY} %{YEAR} %{TIME} %{TZ}`},
	{"DATESTAMP_RFC2822", `%{DAY}, %{MONTHDAY} %{MONTH} %{YEAR} %{TIME} %{ISO8601_TIMEZONE}`},
	{"DATESTAMP_OTHER", `%{DAY} %{MONTH} %{MONTHDAY} %{TIME} %{TZ} %{YEAR}`},
	{"DATESTAMP_EVENTLOG", `%{YEAR}%{MONTHNUM2}%{MONTHDAY}%{HOUR}%{MINUTE}%{SECOND}`},
	{"HTTPDATE", `%{MONTHDAY}/%{MONTH}/%{YEAR}:%{TIME} %{INT}`},
	{"HTTPDERROR_DATE", `%{DAY} %{MONTH} %{MONTHDAY} %{TIME} %{YEAR}`},

	// Log levels
	{"LOGLEVEL", `(?:[Aa]lert|ALERT|[Tt]race|TRACE|[Dd]ebug|DEBUG|[Nn]otice|NOTICE|[Ii]nfo?(?:rmation)?|INFO?(?:RMATION)?|[Ww]arn?(?:ing)?|WARN?(?:ING)?|[Ee]rr?(?:or)?|ERR?(?:OR)?|[Cc]rit?(?:ical)?|CRIT?(?:ICAL)?|[Ff]atal|FATAL|[Ss]evere|SEVERE|EMERG(?:ENCY)?|[Ee]merg(?:ency)?)`},

	// Syslog
	{"SYSLOGTIMESTAMP", `%{MONTH} +%{MONTHDAY} %{TIME}`},
	{"PROG", `[\x21-\x5a\x5c\x5e-\x7e]+`},
	{"SYSLOGPROG", `%{PROG:program}(?:\[%{POSINT:pid}\])?`},
	{"SYSLOGHOST", `%{IPORHOST}`},
	{"SYSLOGFACILITY", `<%{NONNEGINT:facility}.%{NONNEGINT:priority}>`},
	{"SYSLOGBASE", `%{SYSLOGTIMESTAMP:timestamp} (?:%{SYSLOGFACILITY} )?%{SYSLOGHOST:logsource} %{SYSLOGPROG}:`},
	{"SYSLOGBASE2", `(?:%{SYSLOGTIMESTAMP:timestamp}|%{TIMESTAMP_ISO8601:timestamp8601}) (?:%{SYSLOGFACILITY} )?%{SYSLOGHOST:logsource}+(?: %{SYSLOGPROG}:|)`},
	{"SYSLOGLINE", `%{SYSLOGBASE2} %{GREEDYDATA:message}`},
	{"SYSLOGPAMSESSION", `%{SYSLOGBASE} (?=%{GREEDYDATA:message})%{WORD:pam_module}\(%{DATA:pam_caller}\): session %{WORD:pam_session_state} for user %{USERNAME:username}(?: by %{GREEDYDATA:pam_by})?`},
	{"CRON_ACTION", `[A-Z ]+`},
	{"CRONLOG", `%{SYSLOGBASE} \(%{USER:user}\) %{CRON_ACTION:action} \(%{DATA:message}\)`},
	{"SYSLOG5424PRINTASCII", `[!-~]+`},
	{"SYSLOG5424PRI", `<%{NONNEGINT:syslog5424_pri}>`},
	{"SYSLOG5424SD", `\[%{DATA}\]+`},
	{"SYSLOG5424BASE", `%{SYSLOG5424PRI}%{NONNEGINT:syslog5424_ver} +(?:%{TIMESTAMP_ISO8601:syslog5424_ts}|-) +(?:%{IPORHOST:syslog5424_host}|-) +(-|%{SYSLOG5424PRINTASCII:syslog5424_app}) +(-|%{SYSLOG5424PRINTASCII:syslog5424_proc}) +(-|%{SYSLOG5424PRINTASCII:syslog5424_msgid}) +(?:%{SYSLOG5424SD:syslog5424_sd}|-|)`},
	{"SYSLOG5424LINE", `%{SYSLOG5424BASE} +%{GREEDYDATA:syslog5424_msg}`},

	// Apache httpd
	{"HTTPDUSER", `%{EMAILADDRESS}|%{USER}`},
	{"HTTPD_COMMONLOG", `%{IPORHOST:clientip} %{HTTPDUSER:ident} %{HTTPDUSER:auth} \[%{HTTPDATE:timestamp}\] "(?:%{WORD:verb} %{NOTSPACE:request}(?: HTTP/%{NUMBER:httpversion})?|%{DATA:rawrequest})" %{NUMBER:response} (?:%{NUMBER:bytes}|-)`},
	{"HTTPD_COMBINEDLOG", `%{HTTPD_COMMONLOG} %{QS:referrer} %{QS:agent}`},
	{"HTTPD20_ERRORLOG", `\[%{HTTPDERROR_DATE:timestamp}\] \[%{LOGLEVEL:loglevel}\] (?:\[client %{IPORHOST:clientip}\] ){0,1}%{GREEDYDATA:message}`},
	{"HTTPD24_ERRORLOG", `\[%{HTTPDERROR_DATE:timestamp}\] \[%{WORD:module}:%{LOGLEVEL:loglevel}\] \[pid %{POSINT:pid}(:tid %{NUMBER:tid})?\]( \(%{POSINT:proxy_errorcode}\)%{DATA:proxy_message}:)?( \[client %{IPORHOST:clientip}:%{POSINT:clientport}\])?( %{DATA:errorcode}:)? %{GREEDYDATA:message}`},
	{"HTTPD_ERRORLOG", `%{HTTPD20_ERRORLOG}|%{HTTPD24_ERRORLOG}`},
	{"COMMONAPACHELOG", `%{HTTPD_COMMONLOG}`},
	{"COMBINEDAPACHELOG", `%{HTTPD_COMBINEDLOG}`},

	// Nginx
	{"NGINX_ERROR_DATESTAMP", `\d{4}/\d{2}/\d{2}[- ]%{TIME}`},
	{"NGINX_ERROR_LOG", `%{NGINX_ERROR_DATESTAMP:timestamp} \[%{LOGLEVEL:severity}\] %{POSINT:pid}#%{NUMBER:tid}: (?:\*%{NUMBER:connection_id} )?%{GREEDYDATA:message}`},

	// Java
	{"JAVACLASS", `(?:[a-zA-Z$_][a-zA-Z$_0-9]*\.)*[a-zA-Z$_][a-zA-Z$_0-9]*`},
	{"JAVAFILE", `(?:[a-zA-Z$_0-9. -]+)`},
	{"JAVAMETHOD", `(?:(<(?:cl)?init>)|[a-zA-Z$_][a-zA-Z$_0-9]*)`},
	{"JAVASTACKTRACEPART", `%{SPACE}at %{JAVACLASS:class}\.%{JAVAMETHOD:method}\(%{JAVAFILE:file}(?::%{NUMBER:line})?\)`},
	{"JAVATHREAD", `(?:[A-Z]{2}-Processor[\d]+)`},
	{"JAVALOGMESSAGE", `(.*)`},
	{"CATALINA_DATESTAMP", `%{MONTH} %{MONTHDAY}, 20%{YEAR} %{HOUR}:?%{MINUTE}(?::?%{SECOND}) (?:AM|PM)`},
	{"TOMCAT_DATESTAMP", `20%{YEAR}-%{MONTHNUM}-%{MONTHDAY} %{HOUR}:?%{MINUTE}(?::?%{SECOND}) %{ISO8601_TIMEZONE}`},
	{"CATALINALOG", `%{CATALINA_DATESTAMP:timestamp} %{JAVACLASS:class} %{JAVALOGMESSAGE:logmessage}`},
	{"TOMCATLOG", `%{TOMCAT_DATESTAMP:timestamp} \| %{LOGLEVEL:level} \| %{JAVACLASS:class} - %{JAVALOGMESSAGE:logmessage}`},

	// Redis
	{"REDISTIMESTAMP", `%{MONTHDAY} %{MONTH} %{TIME}`},
	{"REDISLOG", `\[%{POSINT:pid}\] %{REDISTIMESTAMP:timestamp} \* `},
	{"REDISMONLOG", `%{NUMBER:timestamp} \[%{INT:database} %{IP:client}:%{NUMBER:port}\] "%{WORD:command}"\s?%{GREEDYDATA:params}`},

	// PostgreSQL
	{"POSTGRESQL", `%{DATESTAMP:timestamp} %{TZ} %{DATA:user_id} %{GREEDYDATA:connection_id} %{POSINT:pid}`},

	// Ruby
	{"RUBY_LOGLEVEL", `(?:DEBUG|FATAL|ERROR|WARN|INFO)`},
	{"RUBY_LOGGER", `[DFEWI], \[%{TIMESTAMP_ISO8601:timestamp} #%{POSINT:pid}\] *%{RUBY_LOGLEVEL:loglevel} -- +%{DATA:progname}: %{GREEDYDATA:message}`},

	// MongoDB
	{"MONGO_LOG", `%{SYSLOGTIMESTAMP:timestamp} \[%{WORD:component}\] %{GREEDYDATA:message}`},
	{"MONGO_WORDDASH", `\b[\w-]+\b`},
	{"MONGO3_SEVERITY", `\w`},
	{"MONGO3_COMPONENT", `%{WORD}|-`},
	{"MONGO3_LOG", `%{TIMESTAMP_ISO8601:timestamp} %{MONGO3_SEVERITY:severity} %{MONGO3_COMPONENT:component}%{SPACE}(?:\[%{DATA:context}\])? %{GREEDYDATA:message}`},

	// HAProxy
	{"HAPROXYTIME", `(?!<[0-9])%{HOUR:haproxy_hour}:%{MINUTE:haproxy_minute}(?::%{SECOND:haproxy_second})(?![0-9])`},
	{"HAPROXYDATE", `%{MONTHDAY:haproxy_monthday}/%{MONTH:haproxy_month}/%{YEAR:haproxy_year}:%{HAPROXYTIME:haproxy_time}.%{INT:haproxy_milliseconds}`},
	{"HAPROXYCAPTUREDREQUESTHEADERS", `%{DATA:captured_request_headers}`},
	{"HAPROXYCAPTUREDRESPONSEHEADERS", `%{DATA:captured_response_headers}`},
	{"HAPROXYHTTPBASE", `%{IP:client_ip}:%{INT:client_port} \[%{HAPROXYDATE:accept_date}\] %{NOTSPACE:frontend_name} %{NOTSPACE:backend_name}/%{NOTSPACE:server_name} %{INT:time_request}/%{INT:time_queue}/%{INT:time_backend_connect}/%{INT:time_backend_response}/%{NOTSPACE:time_duration} %{INT:http_status_code} %{NOTSPACE:bytes_read} %{DATA:captured_request_cookie} %{DATA:captured_response_cookie} %{NOTSPACE:termination_state} %{INT:actconn}/%{INT:feconn}/%{INT:beconn}/%{INT:srvconn}/%{NOTSPACE:retries} %{INT:srv_queue}/%{INT:backend_queue} (\{%{HAPROXYCAPTUREDREQUESTHEADERS}\})?( )?(\{%{HAPROXYCAPTUREDRESPONSEHEADERS}\})?( )?"(<BADREQ>|(%{WORD:http_verb} (%{URIPROTO:http_proto}://)?(?:%{USER:http_user}(?::[^@]*)?@)?(?:%{URIHOST:http_host})?(?:%{URIPATHPARAM:http_request})?( HTTP/%{NUMBER:http_version})?))?"`},
	{"HAPROXYHTTP", `(?:%{SYSLOGTIMESTAMP:syslog_timestamp}|%{TIMESTAMP_ISO8601:timestamp8601}) %{IPORHOST:syslog_server} %{SYSLOGPROG}: %{HAPROXYHTTPBASE}`},
	{"HAPROXYTCP", `(?:%{SYSLOGTIMESTAMP:syslog_timestamp}|%{TIMESTAMP_ISO8601:timestamp8601}) %{IPORHOST:syslog_server} %{SYSLOGPROG}: %{IP:client_ip}:%{INT:client_port} \[%{HAPROXYDATE:accept_date}\] %{NOTSPACE:frontend_name} %{NOTSPACE:backend_name}/%{NOTSPACE:server_name} %{INT:time_queue}/%{INT:time_backend_connect}/%{NOTSPACE:time_duration} %{NOTSPACE:bytes_read} %{NOTSPACE:termination_state} %{INT:actconn}/%{INT:feconn}/%{INT:beconn}/%{INT:srvconn}/%{NOTSPACE:retries} %{INT:srv_queue}/%{INT:backend_queue}`},

	// BIND
	{"BIND9_TIMESTAMP", `%{MONTHDAY}[-]%{MONTH}[-]%{YEAR} %{TIME}`},
	{"BIND9", `%{BIND9_TIMESTAMP:timestamp} queries: %{LOGLEVEL:loglevel}: client %{IP:clientip}#%{POSINT:clientport} \(%{GREEDYDATA:query}\): query: %{GREEDYDATA:query} IN %{GREEDYDATA:querytype} \(%{IP:dns}\)`},
}

// DefaultBuiltins returns a copy of the default built-in template library
// in registration order.
func DefaultBuiltins() []Template {
	out := make([]Template, len(builtinTemplates))
	copy(out, builtinTemplates)
	return out
}
